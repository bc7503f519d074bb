package models

// GenerationStatus is the lifecycle state of a job or a single result, as
// reported by the remote service. Stored verbatim.
type GenerationStatus string

const (
	StatusWait       GenerationStatus = "wait"
	StatusProcessing GenerationStatus = "processing"
	StatusSuccess    GenerationStatus = "success"
	StatusFail       GenerationStatus = "fail"
)

// StatusFilterAll disables status filtering in job listings.
const StatusFilterAll = "ALL"

func (s GenerationStatus) Valid() bool {
	switch s {
	case StatusWait, StatusProcessing, StatusSuccess, StatusFail:
		return true
	}
	return false
}

// Terminal reports whether no further remote updates are expected.
func (s GenerationStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFail
}

func (s GenerationStatus) rank() int {
	switch s {
	case StatusWait:
		return 0
	case StatusProcessing:
		return 1
	case StatusSuccess, StatusFail:
		return 2
	}
	return -1
}

// CanAdvanceTo reports whether a job may move from s to next.
// Jobs only move forward: wait -> processing -> success, or wait/processing -> fail.
func (s GenerationStatus) CanAdvanceTo(next GenerationStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == "" {
		return true
	}
	if s.Terminal() {
		return s == next
	}
	return next.rank() >= s.rank()
}
