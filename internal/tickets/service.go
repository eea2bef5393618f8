package tickets

import (
	"context"

	"ticketly/internal/bookings"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
)

// BookingService interface for booking lookups (to avoid circular dependency)
type BookingService interface {
	GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*bookings.Booking, error)
}

// TicketResponse carries the issued artifact.
type TicketResponse struct {
	BookingRef string `json:"booking_ref"`
	Artifact   string `json:"artifact"`
	Quantity   int    `json:"quantity"`
}

// VerificationResponse is the outcome of checking an artifact.
type VerificationResponse struct {
	Valid      bool   `json:"valid"`
	BookingRef string `json:"booking_ref,omitempty"`
	EventID    string `json:"event_id,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`
}

// Service interface defines the contract for ticket issuance and verification
type Service interface {
	// Issue produces a ticket artifact for a confirmed booking. Re-issuing
	// is idempotent in effect: every call derives the artifact from the
	// booking's current state, so no duplicate entitlement is created.
	Issue(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*TicketResponse, error)

	Verify(ctx context.Context, artifact string) (*VerificationResponse, error)
}

type service struct {
	bookingService BookingService
	signer         *Signer
	logger         *logger.Logger
}

// NewService creates a new ticket service instance
func NewService(bookingService BookingService, signer *Signer, log *logger.Logger) Service {
	return &service{
		bookingService: bookingService,
		signer:         signer,
		logger:         log,
	}
}

func (s *service) Issue(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*TicketResponse, error) {
	booking, err := s.bookingService.GetBooking(ctx, bookingID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	// Only a confirmed booking is an entitlement. Pending bookings have not
	// paid yet; cancelled and refunded ones gave their seats back.
	if !booking.IsConfirmed() {
		return nil, bookings.ErrNotConfirmed
	}

	artifact, err := s.signer.Sign(booking.BookingRef, booking.EventID, booking.UserID, booking.Quantity)
	if err != nil {
		return nil, err
	}

	s.logger.LogTicketIssued(ctx, booking.BookingRef, booking.UserID.String())
	return &TicketResponse{
		BookingRef: booking.BookingRef,
		Artifact:   artifact,
		Quantity:   booking.Quantity,
	}, nil
}

func (s *service) Verify(ctx context.Context, artifact string) (*VerificationResponse, error) {
	claims, err := s.signer.Verify(artifact)
	if err != nil {
		return &VerificationResponse{Valid: false}, nil
	}

	return &VerificationResponse{
		Valid:      true,
		BookingRef: claims.BookingRef,
		EventID:    claims.EventID,
		Quantity:   claims.Quantity,
	}, nil
}
