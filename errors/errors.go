package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrInvalidAggregate       = fmt.Errorf("invalid aggregate")
	ErrConversationNotFound   = fmt.Errorf("conversation not found")
	ErrMessageNotFound        = fmt.Errorf("message not found")
	ErrConversationExists     = fmt.Errorf("conversation already exists")
	ErrConcurrentModification = fmt.Errorf("concurrent modification")
	ErrNotParticipant         = fmt.Errorf("user is not a participant")
	ErrNotAdmin               = fmt.Errorf("user is not an admin")
	ErrForbidden              = fmt.Errorf("operation not allowed")
	ErrInvalidCommand         = fmt.Errorf("invalid command")
	ErrUnauthenticated        = fmt.Errorf("unauthenticated")
	ErrWorkerPanic            = fmt.Errorf("worker panic")
	ErrEventBufferFull        = fmt.Errorf("event buffer full")
	ErrDispatcherStopped      = fmt.Errorf("event dispatcher stopped")
)

// DomainError is raised when an aggregate cannot be built from the given fields.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is lets callers match any construction failure with ErrInvalidAggregate.
func (e *DomainError) Is(target error) bool {
	return target == ErrInvalidAggregate
}

func NewDomainError(format string, args ...any) error {
	return &DomainError{Message: fmt.Sprintf(format, args...)}
}

// MapToGRPCError converts application errors into gRPC status errors.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrConversationNotFound), errors.Is(err, ErrMessageNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrConversationExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, ErrConcurrentModification):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, ErrNotParticipant), errors.Is(err, ErrNotAdmin), errors.Is(err, ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, ErrInvalidAggregate), errors.Is(err, ErrInvalidCommand):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
