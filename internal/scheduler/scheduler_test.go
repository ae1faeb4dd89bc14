package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/engtrainer/internal/logger"
)

type fakeTrainer struct {
	mu      sync.Mutex
	saves   int
	saveErr error
	due     int
	fresh   int
}

func (f *fakeTrainer) Save(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	return f.saveErr
}

func (f *fakeTrainer) Pending() (int, int) {
	return f.due, f.fresh
}

type fakeNotifier struct {
	calls [][2]int
	err   error
}

func (f *fakeNotifier) SendReminder(due, fresh int) error {
	f.calls = append(f.calls, [2]int{due, fresh})
	return f.err
}

func TestSendReminder(t *testing.T) {
	tr := &fakeTrainer{due: 3, fresh: 7}
	n := &fakeNotifier{}
	s := New(tr, n, Config{}, logger.Nop())

	s.SendReminder()
	require.Len(t, n.calls, 1)
	assert.Equal(t, [2]int{3, 7}, n.calls[0])

	n.err = errors.New("telegram down")
	s.SendReminder()
	assert.Len(t, n.calls, 2)
}

func TestSendReminderSkipsWhenNothingPending(t *testing.T) {
	n := &fakeNotifier{}
	s := New(&fakeTrainer{}, n, Config{}, logger.Nop())

	s.SendReminder()
	assert.Empty(t, n.calls)
}

func TestAutosave(t *testing.T) {
	tr := &fakeTrainer{}
	s := New(tr, nil, Config{}, logger.Nop())

	s.Autosave()
	tr.saveErr = errors.New("disk full")
	s.Autosave()
	assert.Equal(t, 2, tr.saves)
}

func TestStartAndStop(t *testing.T) {
	tr := &fakeTrainer{}
	s := New(tr, &fakeNotifier{}, Config{ReminderTime: "09:00", AutosaveMinutes: 5}, logger.Nop())

	require.NoError(t, s.Start())
	assert.Equal(t, 2, s.scheduler.Len())
	s.Stop()
	assert.GreaterOrEqual(t, tr.saves, 1)
}

func TestStartRejectsBadReminderTime(t *testing.T) {
	s := New(&fakeTrainer{}, &fakeNotifier{}, Config{ReminderTime: "25:99"}, logger.Nop())
	assert.Error(t, s.Start())
}
