package model

import "time"

type WorkType string // 작업 종류
type Stage string    // 일정 진행 단계

const (
	WorkPulling   WorkType = "pulling"   // 뽑기
	WorkCutting   WorkType = "cutting"   // 자르기
	WorkPacking   WorkType = "packing"   // 포장
	WorkTransport WorkType = "transport" // 운송

	StageScheduled  Stage = "예정"
	StagePreparing  Stage = "준비중"
	StageInProgress Stage = "진행중"
	StageInTransit  Stage = "운송중"
	StageCompleted  Stage = "완료"
	StageCancelled  Stage = "취소"
)

var (
	defaultPipeline   = []Stage{StageScheduled, StagePreparing, StageInProgress, StageCompleted}
	transportPipeline = []Stage{StageScheduled, StagePreparing, StageInTransit, StageCompleted}
)

// Pipeline returns the linear stage sequence for a work type. Unknown work
// types use the generic pipeline.
func Pipeline(wt WorkType) []Stage {
	if wt == WorkTransport {
		return transportPipeline
	}
	return defaultPipeline
}

func (wt WorkType) Label() string {
	switch wt {
	case WorkPulling:
		return "뽑기"
	case WorkCutting:
		return "자르기"
	case WorkPacking:
		return "포장"
	case WorkTransport:
		return "운송"
	default:
		return string(wt)
	}
}

func (s Stage) IsTerminal() bool {
	return s == StageCompleted || s == StageCancelled
}

// NextStages lists the legal successors of current: the following pipeline
// stage plus 취소. Terminal or unknown stages have none.
func NextStages(wt WorkType, current Stage) []Stage {
	if current.IsTerminal() {
		return nil
	}
	pipeline := Pipeline(wt)
	for i, s := range pipeline {
		if s == current && i+1 < len(pipeline) {
			return []Stage{pipeline[i+1], StageCancelled}
		}
	}
	return nil
}

// CheckTransition reports an InvalidTransitionError unless next is a legal
// successor of current.
func CheckTransition(wt WorkType, current, next Stage) error {
	for _, s := range NextStages(wt, current) {
		if s == next {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "schedule", From: string(current), To: string(next)}
}

// StageEntry 단계 변경 이력 한 건
type StageEntry struct {
	Stage     Stage     `json:"stage"`
	Timestamp time.Time `json:"timestamp"`
	By        string    `json:"by"`
}

// StageState 현재 단계와 추가만 가능한 변경 이력
type StageState struct {
	Current Stage        `json:"current"`
	History []StageEntry `json:"history"`
}

// NewStageState starts a schedule at 예정 with one creation entry.
func NewStageState(at time.Time, by string) StageState {
	return StageState{
		Current: StageScheduled,
		History: []StageEntry{{Stage: StageScheduled, Timestamp: at, By: by}},
	}
}

// Advance validates and applies a transition. On error the state is untouched.
func (st *StageState) Advance(wt WorkType, next Stage, at time.Time, by string) error {
	if err := CheckTransition(wt, st.Current, next); err != nil {
		return err
	}
	st.History = append(st.History, StageEntry{Stage: next, Timestamp: at, By: by})
	st.Current = next
	return nil
}
