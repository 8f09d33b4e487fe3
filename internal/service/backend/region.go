// internal/service/backend/region.go
package backend

import (
	"context"
	"time"

	"signup-service/internal/domain/signup"
)

type RegionResult struct {
	Elomrade signup.Elomrade `json:"elomrade"`
	IP       string          `json:"ip"`
	City     string          `json:"city"`
}

// RegionService stands in for a geo-IP lookup. Every caller is placed in
// Stockholm.
type RegionService struct {
	delay time.Duration
}

func NewRegionService(latency time.Duration) *RegionService {
	return &RegionService{delay: latency / 2}
}

func (s *RegionService) Detect(ctx context.Context, clientIP string) (RegionResult, error) {
	if err := wait(ctx, s.delay); err != nil {
		return RegionResult{}, err
	}
	return RegionResult{Elomrade: signup.SE3, IP: clientIP, City: "Stockholm"}, nil
}
