package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

func TestDailyCron(t *testing.T) {
	tests := []struct {
		at      string
		want    string
		wantErr bool
	}{
		{at: "00:15", want: "15 0 * * *"},
		{at: "23:59", want: "59 23 * * *"},
		{at: " 7:05 ", want: "5 7 * * *"},
		{at: "24:00", wantErr: true},
		{at: "12:60", wantErr: true},
		{at: "noon", wantErr: true},
		{at: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.at, func(t *testing.T) {
			got, err := dailyCron(tt.at)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchedulerManager_Lifecycle(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	require.Error(t, m.RegisterDailyCheck(nil, "bad"))
	assert.Empty(t, m.Jobs())

	assert.False(t, m.IsStarted())
	m.Start()
	assert.True(t, m.IsStarted())
	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
	require.NoError(t, m.Stop())
}
