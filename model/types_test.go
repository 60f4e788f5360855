package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IDA-TUBS/TORO/model"
)

func int64p(v int64) *int64 { return &v }

func TestTaskValidate_BET_OK(t *testing.T) {
	task := model.Task{ID: "tau1", Period: 10, BCET: 1, WCET: 3, Semantic: model.BET}
	require.NoError(t, task.Validate())
}

func TestTaskValidate_BET_MissingWCET(t *testing.T) {
	task := model.Task{ID: "tau1", Period: 10, Semantic: model.BET}
	require.ErrorIs(t, task.Validate(), model.ErrInvalidTask)
}

func TestTaskValidate_LET_ExceedsPeriod(t *testing.T) {
	task := model.Task{ID: "tau1", Period: 10, Semantic: model.LET, LET: 15}
	require.Error(t, task.Validate())
}

func TestTaskValidate_LET_InterconnectMayExceedPeriod(t *testing.T) {
	task := model.Task{ID: "tau1", Period: 10, Semantic: model.LET, LET: 15, Interconnect: true}
	require.NoError(t, task.Validate())
}

func TestTaskValidate_BadOffset(t *testing.T) {
	task := model.Task{ID: "tau1", Period: 10, Offset: 10, Semantic: model.LET, LET: 5}
	require.Error(t, task.Validate())
}

func TestEffectiveDeadline(t *testing.T) {
	task := model.Task{Period: 10}
	require.Equal(t, int64(10), task.EffectiveDeadline())

	task.Deadline = int64p(7)
	require.Equal(t, int64(7), task.EffectiveDeadline())
}

func TestTaskParamsTail(t *testing.T) {
	p := model.TaskParams{WCRT: 4, LET: 9}
	require.Equal(t, int64(4), p.Tail(model.BET))
	require.Equal(t, int64(9), p.Tail(model.LET))
}
