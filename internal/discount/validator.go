package discount

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
)

// Validator turns a raw code into an AppliedDiscount, or ErrNotFound when
// the code is unknown, inactive, or expired. Expiry is enforced here: an
// expired code behaves exactly like a missing one.
type Validator struct {
	store Store
	now   func() time.Time
}

func NewValidator(store Store) *Validator {
	return &Validator{store: store, now: time.Now}
}

func (v *Validator) Validate(ctx context.Context, code string) (*domain.AppliedDiscount, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, ErrNotFound
	}

	record, err := v.store.FindActiveByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("discount lookup failed: %w", err)
	}

	if record.Expired(v.now()) {
		return nil, ErrNotFound
	}

	return &domain.AppliedDiscount{
		Code:  record.Code,
		Kind:  record.Kind,
		Value: record.NormalizedValue(),
	}, nil
}
