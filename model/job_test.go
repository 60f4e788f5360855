package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IDA-TUBS/TORO/model"
)

func TestInstantiateJob_BET(t *testing.T) {
	task := &model.Task{ID: "tau1", Period: 10, Offset: 0, BCET: 1, WCET: 3, Semantic: model.BET}
	params := model.TaskParams{WCRT: 3, BCRT: 1}

	j, err := model.InstantiateJob(task, 1, params)
	require.NoError(t, err)
	require.Equal(t, int64(0), j.Rmin)
	require.Equal(t, int64(2), j.Rmax) // Rmin + WCRT - BCET = 0+3-1
	require.Equal(t, int64(1), j.Dmin) // Rmin + BCRT
	require.Equal(t, int64(13), j.Dmax) // offset + n*P + WCRT = 0+10+3

	j2, err := model.InstantiateJob(task, 2, params)
	require.NoError(t, err)
	require.Equal(t, j.Rmin+task.Period, j2.Rmin)
}

func TestInstantiateJob_LET(t *testing.T) {
	task := &model.Task{ID: "tau1", Period: 10, Offset: 0, Semantic: model.LET, LET: 5}
	params := model.TaskParams{LET: 5}

	j, err := model.InstantiateJob(task, 2, params)
	require.NoError(t, err)
	require.Equal(t, int64(10), j.Rmin)
	require.Equal(t, int64(10), j.Rmax) // LET: Rmax == Rmin
	require.Equal(t, int64(15), j.Dmin)
	require.Equal(t, int64(25), j.Dmax)
}

func TestInstantiateJob_InvalidIndex(t *testing.T) {
	task := &model.Task{ID: "tau1", Period: 10, Semantic: model.BET, WCET: 3}
	_, err := model.InstantiateJob(task, 0, model.TaskParams{WCRT: 3, BCRT: 1})
	require.ErrorIs(t, err, model.ErrInvalidTask)
}

func TestInstantiateJob_SemanticMismatch(t *testing.T) {
	task := &model.Task{ID: "tau1", Period: 10, Semantic: model.BET, WCET: 3}
	_, err := model.InstantiateJob(task, 1, model.TaskParams{WCRT: 0})
	require.ErrorIs(t, err, model.ErrSemanticMismatch)
}

func TestFollows(t *testing.T) {
	producer := model.Job{Dmin: 5, Dmax: 15}
	consumer := model.Job{Rmin: 6, Rmax: 10}
	require.True(t, model.Follows(producer, consumer))

	farConsumer := model.Job{Rmin: 20, Rmax: 25}
	require.False(t, model.Follows(producer, farConsumer))
}

func TestJobKey(t *testing.T) {
	j := model.Job{TaskID: "tau1", Index: 3}
	require.Equal(t, "tau1#3", j.Key())
}
