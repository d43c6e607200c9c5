package core

import (
	"errors"
)

var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrAssetNotFound    = errors.New("asset not found")
	ErrUnknownAssetType = errors.New("unknown asset type")
	ErrQueueFull        = errors.New("queue is full")
	ErrQueueEmpty       = errors.New("queue is empty")
)
