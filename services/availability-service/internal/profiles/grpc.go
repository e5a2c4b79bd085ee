package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/md-rashed-zaman/interviewbook/libs/grpcx"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/model"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// GetAvailabilityMethod is the expert service RPC. Request and response are google.protobuf.Struct;
// the response carries the profile availability document.
const GetAvailabilityMethod = "/expert.v1.ExpertProfileService/GetAvailability"

type GRPCSource struct {
	conn *grpc.ClientConn
}

func NewGRPCSource(ctx context.Context, addr string) (*GRPCSource, error) {
	conn, err := grpcx.Dial(ctx, addr, grpcx.DialOptions{Timeout: 3 * time.Second})
	if err != nil {
		return nil, err
	}
	return &GRPCSource{conn: conn}, nil
}

func (s *GRPCSource) Close() error {
	return s.conn.Close()
}

func (s *GRPCSource) GetAvailability(ctx context.Context, expertID string) (model.ProfileAvailability, error) {
	req, err := structpb.NewStruct(map[string]any{"expert_id": expertID})
	if err != nil {
		return model.ProfileAvailability{}, err
	}
	resp := &structpb.Struct{}
	if err := s.conn.Invoke(ctx, GetAvailabilityMethod, req, resp); err != nil {
		if status.Code(err) == codes.NotFound {
			return model.ProfileAvailability{}, ErrNotFound
		}
		return model.ProfileAvailability{}, err
	}

	raw, err := protojson.Marshal(resp)
	if err != nil {
		return model.ProfileAvailability{}, err
	}
	var p model.ProfileAvailability
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.ProfileAvailability{}, fmt.Errorf("decode availability: %w", err)
	}
	return p, nil
}
