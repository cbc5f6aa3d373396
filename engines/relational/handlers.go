package relational

import (
	"context"
	"fmt"

	"finbench/driver"
	"finbench/operation"
)

// Wraps a handler so backend failures surface as typed query errors. Sessions left
// over from a closed engine fail with ErrUseAfterClose.
func handle[O operation.Operation](fn func(ctx context.Context, op O, s *Session, r driver.ResultReporter) error) driver.HandlerFactory {
	return driver.Handle(func(ctx context.Context, op O, s *Session, r driver.ResultReporter) error {
		if err := s.open(); err != nil {
			return err
		}
		err := fn(ctx, op, s, r)
		if err == nil {
			return nil
		}
		if closedErr := s.open(); closedErr != nil {
			return fmt.Errorf("%w: %v", closedErr, err)
		}
		return classify(op.Kind(), err)
	})
}

// Handlers returns the registry covering the whole transaction workload.
func Handlers() driver.Registry {
	return driver.Registry{
		operation.KindComplexRead1:  handle(complexRead1),
		operation.KindComplexRead2:  handle(complexRead2),
		operation.KindComplexRead3:  handle(complexRead3),
		operation.KindComplexRead4:  handle(complexRead4),
		operation.KindComplexRead5:  handle(complexRead5),
		operation.KindComplexRead6:  handle(complexRead6),
		operation.KindComplexRead7:  handle(complexRead7),
		operation.KindComplexRead8:  handle(complexRead8),
		operation.KindComplexRead9:  handle(complexRead9),
		operation.KindComplexRead10: handle(complexRead10),
		operation.KindComplexRead11: handle(complexRead11),
		operation.KindComplexRead12: handle(complexRead12),

		operation.KindSimpleRead1: handle(simpleRead1),
		operation.KindSimpleRead2: handle(simpleRead2),
		operation.KindSimpleRead3: handle(simpleRead3),
		operation.KindSimpleRead4: handle(simpleRead4),
		operation.KindSimpleRead5: handle(simpleRead5),
		operation.KindSimpleRead6: handle(simpleRead6),

		operation.KindWrite1:  handle(write1),
		operation.KindWrite2:  handle(write2),
		operation.KindWrite3:  handle(write3),
		operation.KindWrite4:  handle(write4),
		operation.KindWrite5:  handle(write5),
		operation.KindWrite6:  handle(write6),
		operation.KindWrite7:  handle(write7),
		operation.KindWrite8:  handle(write8),
		operation.KindWrite9:  handle(write9),
		operation.KindWrite10: handle(write10),
		operation.KindWrite11: handle(write11),
		operation.KindWrite12: handle(write12),
		operation.KindWrite13: handle(write13),
		operation.KindWrite14: handle(write14),
		operation.KindWrite15: handle(write15),
		operation.KindWrite16: handle(write16),
		operation.KindWrite17: handle(write17),
		operation.KindWrite18: handle(write18),
		operation.KindWrite19: handle(write19),

		operation.KindReadWrite1: handle(readWrite1),
		operation.KindReadWrite2: handle(readWrite2),
		operation.KindReadWrite3: handle(readWrite3),
	}
}
