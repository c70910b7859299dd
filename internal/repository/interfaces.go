package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
)

// EmailTakenMessage is the conflict message for a duplicate user email.
const EmailTakenMessage = "The email has already been taken."

// All repository interfaces in one file. Lookups of a missing row return an
// errors.ErrNotFound AppError; store failures return errors.ErrUnavailable.
type (
	ProgramRepository interface {
		Create(ctx context.Context, program *model.Program) error
		Get(ctx context.Context, id int64) (*model.Program, error)
		Update(ctx context.Context, program *model.Program) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, q listing.Query) (listing.Page[*model.Program], error)
		Stats(ctx context.Context) (*model.ProgramStats, error)
	}

	ReportRepository interface {
		Create(ctx context.Context, report *model.Report) error
		Get(ctx context.Context, id int64) (*model.Report, error)
		Update(ctx context.Context, report *model.Report) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, q listing.Query) (listing.Page[*model.Report], error)
		Stats(ctx context.Context) (*model.ReportStats, error)
	}

	AidRequestRepository interface {
		Create(ctx context.Context, req *model.AidRequest) error
		Get(ctx context.Context, id int64) (*model.AidRequest, error)
		Update(ctx context.Context, req *model.AidRequest) error
		List(ctx context.Context, q listing.Query) (listing.Page[*model.AidRequest], error)
		CountByUser(ctx context.Context, userID int64) (int, error)
	}

	EmergencyReportRepository interface {
		Create(ctx context.Context, report *model.EmergencyReport) error
		Get(ctx context.Context, id int64) (*model.EmergencyReport, error)
		Update(ctx context.Context, report *model.EmergencyReport) error
		List(ctx context.Context, q listing.Query) (listing.Page[*model.EmergencyReport], error)
		// CountOpenByUser counts reports of userID that are not Completed.
		CountOpenByUser(ctx context.Context, userID int64) (int, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id int64) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		UpdatePassword(ctx context.Context, id int64, passwordHash string) error
		ListIDsByRole(ctx context.Context, role string) ([]int64, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, n *model.Notification) error
		ListByUser(ctx context.Context, userID int64, limit int) ([]*model.Notification, error)
		MarkRead(ctx context.Context, id, userID int64) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// ClaimPending marks up to limit pending events as processing and
		// returns them. Concurrent claimers never receive the same event.
		ClaimPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		// MarkFailed records errMsg; with retry the event goes back to pending.
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retry bool) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)

// Store bundles every repository of one backend.
type Store struct {
	Programs         ProgramRepository
	Reports          ReportRepository
	AidRequests      AidRequestRepository
	EmergencyReports EmergencyReportRepository
	Users            UserRepository
	Notifications    NotificationRepository
	Outbox           OutboxRepository
	// Ping checks the backend is reachable.
	Ping func(ctx context.Context) error
	// Close releases the backend.
	Close func() error
}
