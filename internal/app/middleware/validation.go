package middleware

import (
	"context"

	"hotelops/internal/app/commands"
	"hotelops/internal/app/queries"
)

// Validatable messages check their own fields before reaching a handler.
type Validatable interface {
	Validate() error
}

func validate(message any) error {
	if v, ok := message.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

func Validation() CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := validate(cmd); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

func QueryValidation() QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := validate(q); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}
