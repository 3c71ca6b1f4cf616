package players

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the record against its field constraints.
func (r Record) Validate() error {
	if err := validatorInstance().Struct(r); err != nil {
		return fmt.Errorf("invalid player record: %w", err)
	}
	return nil
}

// Validate checks a roster entry before it is admitted to the pool.
func (p Player) Validate() error {
	if err := validatorInstance().Struct(p); err != nil {
		return fmt.Errorf("invalid roster player %d: %w", p.ID, err)
	}
	return nil
}
