// internal/service/flow/session.go
package flow

import (
	"context"
	"time"

	"signup-service/internal/domain/signup"
	"signup-service/internal/pkg/session"
)

// SigningStatus is the state of the simulated BankID signature.
type SigningStatus string

const (
	SigningInit    SigningStatus = "INIT"
	SigningPending SigningStatus = "PENDING"
	SigningSuccess SigningStatus = "SUCCESS"
	SigningFailed  SigningStatus = "FAILED"
)

type PendingDate struct {
	Date string `json:"date"`
	Mode string `json:"mode"`
}

type Signing struct {
	Status    SigningStatus `json:"status"`
	StartedAt time.Time     `json:"startedAt,omitempty"`
	// Result is the dev override captured when signing started.
	Result string `json:"result,omitempty"`
}

// PrivateSession is view state of the private wizard that is not part of
// the case itself.
type PrivateSession struct {
	Step              signup.PrivateFlowStep         `json:"step,omitempty"`
	DetailsSubStep    signup.DetailsSubStep          `json:"detailsSubStep"`
	PendingDate       *PendingDate                   `json:"pendingDate,omitempty"`
	RequireStrongAuth bool                           `json:"requireStrongAuth"`
	ClassifyToken     uint64                         `json:"classifyToken"`
	RegionRequested   bool                           `json:"regionRequested"`
	IncludeFast       bool                           `json:"includeFast"`
	Extras            *signup.ExtraServicesSelection `json:"extras,omitempty"`
	ExtrasSaved       bool                           `json:"extrasSaved"`
	Signing           Signing                        `json:"signing"`
	OrderID           string                         `json:"orderId,omitempty"`
}

// LoopView is the screen inside the facility loop.
type LoopView string

const (
	LoopHub     LoopView = "HUB"
	LoopAddress LoopView = "ADDRESS"
	LoopProduct LoopView = "PRODUCT"
	LoopDone    LoopView = "DONE"
)

type CompanySession struct {
	Step        signup.CompanyFlowStep `json:"step,omitempty"`
	BlockedSize signup.CompanySize     `json:"blockedSize,omitempty"`
	View        LoopView               `json:"view,omitempty"`
	Index       int                    `json:"index"`
	Linear      bool                   `json:"linear"`
	Completed   bool                   `json:"completed"`
}

type Session struct {
	Private PrivateSession `json:"private"`
	Company CompanySession `json:"company"`
}

func newSession() Session {
	return Session{
		Private: PrivateSession{
			DetailsSubStep: signup.DetailsDate,
			Signing:        Signing{Status: SigningInit},
		},
	}
}

// SessionStore persists sessions next to the case state, under the same
// schema version.
type SessionStore struct {
	slot *session.Versioned
}

func NewSessionStore(slot *session.Versioned) *SessionStore {
	return &SessionStore{slot: slot}
}

// Load returns the stored session or a fresh one.
func (s *SessionStore) Load(ctx context.Context, caseID string) (Session, error) {
	out := newSession()
	found, err := s.slot.Get(ctx, session.FlowSessionKey(s.slot.Version(), caseID), &out)
	if err != nil {
		return newSession(), err
	}
	if !found {
		return newSession(), nil
	}
	return out, nil
}

func (s *SessionStore) Save(ctx context.Context, caseID string, sess Session) error {
	return s.slot.Put(ctx, session.FlowSessionKey(s.slot.Version(), caseID), sess)
}

func (s *SessionStore) Delete(ctx context.Context, caseID string) error {
	return s.slot.Delete(ctx, session.FlowSessionKey(s.slot.Version(), caseID))
}
