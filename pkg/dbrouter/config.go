package dbrouter

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is immutable after construction; the router and its collaborators
// only ever read it.
type Config struct {
	PrimaryURL          string        `validate:"required"`
	ReplicaURLs         []string      `validate:"dive,required"`
	MaxReplicaLag       time.Duration `validate:"gt=0"`
	ConsistencyWindow   time.Duration `validate:"gt=0"`
	HealthCheckInterval time.Duration `validate:"gt=0"`
	ConnectionTimeout   time.Duration `validate:"gt=0"`
	PreferReplicas      bool
}

func (c Config) Validate() error {
	return validator.New().Struct(c)
}
