package relational

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"slices"

	"finbench/driver"
	"finbench/operation"
)

func simpleRead1(ctx context.Context, op operation.SimpleRead1, s *Session, r driver.ResultReporter) error {
	var created int64
	var res operation.SimpleRead1Result
	err := s.store().queryRow(ctx, "select create_time, is_blocked, account_type from account where id = ?", op.AccountID).
		Scan(&created, &res.IsBlocked, &res.AccountType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	} else if err != nil {
		return err
	}
	res.CreateTime = fromMillis(created)
	r.Report(res)
	return nil
}

func simpleRead2(ctx context.Context, op operation.SimpleRead2, s *Session, r driver.ResultReporter) error {
	st := s.store()
	aggregates := [2]aggregate{}
	for i, dir := range []direction{out, in} {
		edges, err := st.edges(ctx, transfers, dir, op.AccountID, op.Window)
		if err != nil {
			return err
		}
		for _, e := range edges {
			aggregates[i].add(e.amount)
		}
	}

	maxOf := func(a aggregate) float64 {
		if a.num == 0 {
			return -1
		}
		return round3(a.max)
	}
	r.Report(operation.SimpleRead2Result{
		SumEdge1Amount: round3(aggregates[0].sum),
		MaxEdge1Amount: maxOf(aggregates[0]),
		NumEdge1:       aggregates[0].num,
		SumEdge2Amount: round3(aggregates[1].sum),
		MaxEdge2Amount: maxOf(aggregates[1]),
		NumEdge2:       aggregates[1].num,
	})
	return nil
}

func simpleRead3(ctx context.Context, op operation.SimpleRead3, s *Session, r driver.ResultReporter) error {
	st := s.store()
	edges, err := st.edges(ctx, transfers, in, op.AccountID, op.Window)
	if err != nil {
		return err
	}

	sources := neighbours(above(edges, op.Threshold))
	blocked := 0
	for _, src := range sources {
		isBlocked, _, err := st.blocked(ctx, "account", src)
		if err != nil {
			return err
		}
		if isBlocked {
			blocked++
		}
	}
	r.Report(operation.SimpleRead3Result{BlockRatio: ratio(float64(blocked), float64(len(sources)))})
	return nil
}

// Groups the transfers of an account above threshold by counterpart, largest sums first
func groupTransfers(ctx context.Context, st store, dir direction, accountID int64, threshold float64, w operation.Window) ([]int64, map[int64]*aggregate, error) {
	edges, err := st.edges(ctx, transfers, dir, accountID, w)
	if err != nil {
		return nil, nil, err
	}
	edges = above(edges, threshold)

	groups := map[int64]*aggregate{}
	for _, e := range edges {
		if groups[e.other] == nil {
			groups[e.other] = &aggregate{}
		}
		groups[e.other].add(e.amount)
	}
	ids := neighbours(edges)
	slices.SortFunc(ids, func(a, b int64) int {
		return cmp.Or(cmp.Compare(round3(groups[b].sum), round3(groups[a].sum)), cmp.Compare(a, b))
	})
	return ids, groups, nil
}

func simpleRead4(ctx context.Context, op operation.SimpleRead4, s *Session, r driver.ResultReporter) error {
	ids, groups, err := groupTransfers(ctx, s.store(), out, op.AccountID, op.Threshold, op.Window)
	if err != nil {
		return err
	}
	for _, id := range ids {
		r.Report(operation.SimpleRead4Result{DstID: id, NumEdges: groups[id].num, SumAmount: round3(groups[id].sum)})
	}
	return nil
}

func simpleRead5(ctx context.Context, op operation.SimpleRead5, s *Session, r driver.ResultReporter) error {
	ids, groups, err := groupTransfers(ctx, s.store(), in, op.AccountID, op.Threshold, op.Window)
	if err != nil {
		return err
	}
	for _, id := range ids {
		r.Report(operation.SimpleRead5Result{SrcID: id, NumEdges: groups[id].num, SumAmount: round3(groups[id].sum)})
	}
	return nil
}

func simpleRead6(ctx context.Context, op operation.SimpleRead6, s *Session, r driver.ResultReporter) error {
	st := s.store()
	edges, err := st.edges(ctx, transfers, in, op.AccountID, op.Window)
	if err != nil {
		return err
	}

	candidates := map[int64]bool{}
	for _, mid := range neighbours(edges) {
		outgoing, err := st.edges(ctx, transfers, out, mid, op.Window)
		if err != nil {
			return err
		}
		for _, dst := range neighbours(outgoing) {
			if dst != op.AccountID {
				candidates[dst] = true
			}
		}
	}

	blocked := []int64{}
	for dst := range candidates {
		isBlocked, _, err := st.blocked(ctx, "account", dst)
		if err != nil {
			return err
		}
		if isBlocked {
			blocked = append(blocked, dst)
		}
	}
	slices.Sort(blocked)
	for _, id := range blocked {
		r.Report(operation.SimpleRead6Result{DstID: id})
	}
	return nil
}
