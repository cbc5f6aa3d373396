package relational

import (
	"context"

	"finbench/driver"
	"finbench/operation"

	zlog "github.com/rs/zerolog/log"
)

// Returns true when both vertices exist and neither is blocked
func (st store) bothActive(ctx context.Context, table string, ids ...int64) (bool, error) {
	for _, id := range ids {
		blocked, found, err := st.blocked(ctx, table, id)
		if err != nil {
			return false, err
		}
		if blocked || !found {
			return false, nil
		}
	}
	return true, nil
}

func readWrite1(ctx context.Context, op operation.ReadWrite1, s *Session, r driver.ResultReporter) error {
	return s.inTx(ctx, func(st store) error {
		active, err := st.bothActive(ctx, "account", op.SrcID, op.DstID)
		if err != nil || !active {
			return err
		}
		if err := st.insert(ctx, op.Kind(), insertTransfer, op.SrcID, op.DstID, millis(op.Time), op.Amount, "", "", "", ""); err != nil {
			return err
		}

		length, err := st.shortestPath(ctx, op.DstID, op.SrcID, op.Window, maxHops)
		if err != nil {
			return err
		}
		if length > 0 {
			zlog.Debug().Int64("src", op.SrcID).Int64("dst", op.DstID).Int("cycle", length+1).Msg("Transfer closes a cycle, blocking accounts")
			return st.block(ctx, "account", op.SrcID, op.DstID)
		}
		return nil
	})
}

func readWrite2(ctx context.Context, op operation.ReadWrite2, s *Session, r driver.ResultReporter) error {
	return s.inTx(ctx, func(st store) error {
		active, err := st.bothActive(ctx, "account", op.SrcID, op.DstID)
		if err != nil || !active {
			return err
		}
		if err := st.insert(ctx, op.Kind(), insertTransfer, op.SrcID, op.DstID, millis(op.Time), op.Amount, "", "", "", ""); err != nil {
			return err
		}

		for _, id := range []int64{op.SrcID, op.DstID} {
			transfersIn, err := st.expand(ctx, []edgeTable{transfers}, in, id, op.Window, op.Truncation)
			if err != nil {
				return err
			}
			transfersOut, err := st.expand(ctx, []edgeTable{transfers}, out, id, op.Window, op.Truncation)
			if err != nil {
				return err
			}
			if ratio(sum(above(transfersIn, op.AmountThreshold)), sum(above(transfersOut, op.AmountThreshold))) > op.RatioThreshold {
				zlog.Debug().Int64("account", id).Msg("In/out ratio above threshold, blocking accounts")
				return st.block(ctx, "account", op.SrcID, op.DstID)
			}
		}
		return nil
	})
}

func readWrite3(ctx context.Context, op operation.ReadWrite3, s *Session, r driver.ResultReporter) error {
	return s.inTx(ctx, func(st store) error {
		active, err := st.bothActive(ctx, "person", op.SrcID, op.DstID)
		if err != nil || !active {
			return err
		}
		if err := st.insert(ctx, op.Kind(), insertGuarantee, "person", op.SrcID, op.DstID, millis(op.Time), "", ""); err != nil {
			return err
		}

		chain, err := st.guaranteeChain(ctx, op.SrcID, op.Window, op.Truncation)
		if err != nil {
			return err
		}
		total, _, err := st.appliedLoans(ctx, chain, op.Window, op.Truncation)
		if err != nil {
			return err
		}
		if total > op.Threshold {
			zlog.Debug().Int64("src", op.SrcID).Float64("loans", total).Msg("Guarantee chain above threshold, blocking persons")
			return st.block(ctx, "person", op.SrcID, op.DstID)
		}
		return nil
	})
}
