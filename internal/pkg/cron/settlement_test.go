package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotter struct {
	list  salary.SettlementListResponse
	err   error
	calls atomic.Int32
}

func (f *fakeSnapshotter) Snapshot(context.Context) (salary.SettlementListResponse, error) {
	f.calls.Add(1)
	return f.list, f.err
}

type fakeRecorder struct {
	got []salary.SettlementListResponse
}

func (f *fakeRecorder) RecordSettlements(list salary.SettlementListResponse) {
	f.got = append(f.got, list)
}

func TestSettlementJobs_Snapshot(t *testing.T) {
	snap := &fakeSnapshotter{list: salary.SettlementListResponse{
		Settlements: []salary.SettlementSummary{
			{EmployeeID: "e1", UnpaidDays: 3, UnpaidBaseSalary: decimal.NewFromInt(800)},
		},
		TotalUnpaidDays: 3,
		TotalUnpaidBase: decimal.NewFromInt(800),
	}}
	rec := &fakeRecorder{}

	jobs := NewSettlementJobs(snap, rec, time.Hour)
	require.NoError(t, jobs.Snapshot(context.Background()))

	require.Len(t, rec.got, 1)
	assert.Equal(t, 3, rec.got[0].TotalUnpaidDays)
}

func TestSettlementJobs_SnapshotError(t *testing.T) {
	snap := &fakeSnapshotter{err: errors.New("db down")}
	rec := &fakeRecorder{}

	err := NewSettlementJobs(snap, rec, time.Hour).Snapshot(context.Background())
	require.Error(t, err)
	assert.Empty(t, rec.got)
}

func TestScheduler_StartRunsJobImmediately(t *testing.T) {
	snap := &fakeSnapshotter{}
	s := NewScheduler()
	NewSettlementJobs(snap, nil, time.Hour).RegisterJobs(s)

	s.Start()
	assert.Eventually(t, func() bool { return snap.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()
	assert.Equal(t, int32(1), snap.calls.Load())
}
