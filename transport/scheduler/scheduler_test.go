package scheduler

import (
	"context"
	"errors"
	"testing"
	"villa/config"
	"villa/internal/domains/reconcile/mocks"
	reconcile "villa/internal/domains/reconcile/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newConfig(enable bool) *config.Config {
	cfg := &config.Config{}
	cfg.Jobs.Enable = enable
	cfg.Jobs.DailyHour = 9
	cfg.Calendar.RefreshIntervalMinutes = 60

	return cfg
}

func TestNew_RegistersJobs(t *testing.T) {
	ctrl := gomock.NewController(t)

	sched, err := New(newConfig(true), mocks.NewMockReconcile(ctrl))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sched.Shutdown() })

	assert.ElementsMatch(t, []string{JobCalendarRefresh, JobDailyNotices}, sched.Jobs())
}

func TestNew_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)

	sched, err := New(newConfig(false), mocks.NewMockReconcile(ctrl))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sched.Shutdown() })

	assert.Empty(t, sched.Jobs())

	sched.Start()
}

func TestScheduler_Tasks(t *testing.T) {
	t.Run("refresh calls the reconciler", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rec := mocks.NewMockReconcile(ctrl)

		rec.EXPECT().RefreshCalendar(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)

			return errors.New("feed down")
		})

		s := &Scheduler{reconcile: rec, enabled: true}
		s.refreshCalendar()
	})

	t.Run("daily notices calls the reconciler", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rec := mocks.NewMockReconcile(ctrl)

		rec.EXPECT().SendDailyNotices(gomock.Any()).Return(reconcile.Summary{Reminders: 2, PreArrivals: 1}, nil)

		s := &Scheduler{reconcile: rec, enabled: true}
		s.sendDailyNotices()
	})

	t.Run("daily notices with failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rec := mocks.NewMockReconcile(ctrl)

		rec.EXPECT().SendDailyNotices(gomock.Any()).Return(reconcile.Summary{Reminders: 1, Failures: 1}, errors.New("smtp down"))

		s := &Scheduler{reconcile: rec, enabled: true}
		s.sendDailyNotices()
	})
}
