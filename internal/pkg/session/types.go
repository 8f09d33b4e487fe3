// internal/pkg/session/types.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrSlotEmpty is returned by Slot.Load when nothing is stored under the key.
var ErrSlotEmpty = errors.New("storage slot empty")

// Slot reads and writes one serialized blob per key.
type Slot interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Envelope wraps every persisted blob with the schema version it was written under.
type Envelope struct {
	Version string          `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	Data    json.RawMessage `json:"data"`
}

func StateKey(version, caseID string) string {
	return fmt.Sprintf("signup:flow_state:%s:%s", version, caseID)
}

func FlowSessionKey(version, caseID string) string {
	return fmt.Sprintf("signup:flow_session:%s:%s", version, caseID)
}

func DevOverridesKey(caseID string) string {
	return fmt.Sprintf("signup:dev_overrides:%s", caseID)
}

// Versioned stores JSON values in a Slot under a schema version. Values written
// under another version read back as absent.
type Versioned struct {
	slot    Slot
	version string
	ttl     time.Duration
	now     func() time.Time
}

func NewVersioned(slot Slot, version string, ttl time.Duration) *Versioned {
	return &Versioned{slot: slot, version: version, ttl: ttl, now: time.Now}
}

func (v *Versioned) Version() string { return v.version }

// Get decodes the value under key into out. found is false when the slot is
// empty, written under another version, or undecodable.
func (v *Versioned) Get(ctx context.Context, key string, out any) (found bool, err error) {
	raw, err := v.slot.Load(ctx, key)
	if errors.Is(err, ErrSlotEmpty) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load slot %s: %w", key, err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false, nil
	}
	if env.Version != v.version || len(env.Data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, nil
	}
	return true, nil
}

func (v *Versioned) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal slot value: %w", err)
	}
	raw, err := json.Marshal(Envelope{Version: v.version, SavedAt: v.now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	if err := v.slot.Save(ctx, key, raw, v.ttl); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", key, err)
	}
	return nil
}

func (v *Versioned) Delete(ctx context.Context, key string) error {
	return v.slot.Delete(ctx, key)
}
