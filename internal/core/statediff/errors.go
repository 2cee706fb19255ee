package statediff

import "errors"

var (
	// ErrLengthMismatch 当前状态与快照长度不一致
	ErrLengthMismatch = errors.New("state length mismatch")

	// ErrResynced 长度不一致，快照已按当前状态重建
	ErrResynced = errors.New("state snapshot resynced")
)
