package grpcserver

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/scheduling"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName    = "availability.v1.AvailabilityService"
	GetSlotsMethod = "/" + ServiceName + "/GetSlots"
)

type availabilityServer interface {
	GetSlots(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*availabilityServer)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "GetSlots",
		Handler:    getSlotsHandler,
	}},
	Streams:  []grpc.StreamDesc{},
	Metadata: "availability/v1/availability.proto",
}

func getSlotsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(availabilityServer).GetSlots(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetSlotsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(availabilityServer).GetSlots(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type Scheduler interface {
	ParseDate(raw string) (time.Time, error)
	DaySlots(ctx context.Context, expertID string, date time.Time) (scheduling.DayResult, error)
}

type server struct {
	scheduler Scheduler
}

func Register(grpcServer *grpc.Server, scheduler Scheduler) {
	grpcServer.RegisterService(&serviceDesc, &server{scheduler: scheduler})
}

func (s *server) GetSlots(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	expertID := strings.TrimSpace(fields["expert_id"].GetStringValue())
	dateStr := strings.TrimSpace(fields["date"].GetStringValue())
	if expertID == "" || dateStr == "" {
		return nil, status.Error(codes.InvalidArgument, "expert_id and date are required")
	}
	id, err := uuid.Parse(expertID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid expert_id")
	}
	date, err := s.scheduler.ParseDate(dateStr)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid date, expected YYYY-MM-DD")
	}

	day, err := s.scheduler.DaySlots(ctx, id.String(), date)
	if err != nil {
		if errors.Is(err, scheduling.ErrSessionsUnavailable) || errors.Is(err, scheduling.ErrProfileUnavailable) {
			return nil, status.Error(codes.Unavailable, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return dayStruct(day)
}

func dayStruct(day scheduling.DayResult) (*structpb.Struct, error) {
	slots := make([]any, 0, len(day.Slots))
	for _, sl := range day.Slots {
		slots = append(slots, map[string]any{
			"time":       sl.Time,
			"available":  sl.Available,
			"start_time": sl.StartTime.Format(time.RFC3339),
			"end_time":   sl.EndTime.Format(time.RFC3339),
		})
	}
	out, err := structpb.NewStruct(map[string]any{
		"date":            day.Date.Format("2006-01-02"),
		"slots":           slots,
		"available_count": day.AvailableCount,
		"max_per_day":     day.MaxPerDay,
		"degraded":        day.Degraded,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
