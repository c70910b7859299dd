package emergency

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository/memory"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
)

type recorder struct {
	got []*model.Notification
}

func (r *recorder) Notify(_ context.Context, n *model.Notification) error {
	r.got = append(r.got, n)
	return nil
}

func TestEmergencyLifecycle(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	rec := &recorder{}
	svc := NewService(memory.NewEmergencyReportRepository(), rec, &logger)

	lat, lng := 1.0333, 111.8333
	e, err := svc.Submit(ctx, 3, model.CreateEmergencyReportRequest{
		IncidentType:     "Flood",
		IncidentLocation: "Lubok Antu",
		Latitude:         &lat,
		Longitude:        &lng,
	})
	require.NoError(t, err)
	assert.Equal(t, model.EmergencyStatusSubmitted, e.Status)

	mine, err := svc.ListMine(ctx, 3, listing.Params{"search": "lubok"})
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Total)

	others, err := svc.ListMine(ctx, 4, nil)
	require.NoError(t, err)
	assert.Zero(t, others.Total)

	_, err = svc.UpdateStatus(ctx, e.ID, model.AidStatusRejected, nil, 1)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "emergency reports cannot be rejected")

	done, err := svc.UpdateStatus(ctx, e.ID, model.EmergencyStatusCompleted, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, model.EmergencyStatusCompleted, done.Status)
	require.Len(t, rec.got, 1)
	assert.Equal(t, "Lubok Antu", rec.got[0].Data["location"])
}
