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

const maxHops = 3

func complexRead1(ctx context.Context, op operation.ComplexRead1, s *Session, r driver.ResultReporter) error {
	st := s.store()

	distance := map[int64]int{}
	frontier := []hop{{id: op.AccountID, at: beforeAll}}
	for depth := 1; depth <= maxHops && len(frontier) > 0; depth++ {
		next, err := st.inOrderStep(ctx, frontier, out, op.Window, op.Truncation)
		if err != nil {
			return err
		}
		frontier = frontier[:0:0]
		for _, h := range next {
			if h.id == op.AccountID {
				continue
			}
			if _, seen := distance[h.id]; !seen {
				distance[h.id] = depth
			}
			frontier = append(frontier, h)
		}
	}

	type medium struct {
		kind    string
		blocked bool
	}
	media := map[int64]*medium{}
	results := []operation.ComplexRead1Result{}
	for account, dist := range distance {
		signIns, err := st.expand(ctx, []edgeTable{signIns}, in, account, op.Window, op.Truncation)
		if err != nil {
			return err
		}
		for _, mediumID := range neighbours(signIns) {
			m, ok := media[mediumID]
			if !ok {
				m = &medium{}
				err := st.queryRow(ctx, "select medium_type, is_blocked from medium where id = ?", mediumID).Scan(&m.kind, &m.blocked)
				if err != nil && !errors.Is(err, sql.ErrNoRows) {
					return err
				}
				media[mediumID] = m
			}
			if m.blocked {
				results = append(results, operation.ComplexRead1Result{
					OtherID: account, AccountDistance: dist, MediumID: mediumID, MediumType: m.kind,
				})
			}
		}
	}

	slices.SortFunc(results, func(a, b operation.ComplexRead1Result) int {
		return cmp.Or(cmp.Compare(a.AccountDistance, b.AccountDistance), cmp.Compare(a.OtherID, b.OtherID), cmp.Compare(a.MediumID, b.MediumID))
	})
	for _, res := range results {
		r.Report(res)
	}
	return nil
}

func complexRead2(ctx context.Context, op operation.ComplexRead2, s *Session, r driver.ResultReporter) error {
	st := s.store()
	accounts, err := st.ownedAccounts(ctx, "person", op.PersonID)
	if err != nil {
		return err
	}

	own := map[int64]bool{}
	frontier := []hop{}
	for _, id := range accounts {
		own[id] = true
		frontier = append(frontier, hop{id: id, at: afterAll})
	}
	others := map[int64]bool{}
	for depth := 1; depth <= maxHops && len(frontier) > 0; depth++ {
		if frontier, err = st.inOrderStep(ctx, frontier, in, op.Window, op.Truncation); err != nil {
			return err
		}
		for _, h := range frontier {
			if !own[h.id] {
				others[h.id] = true
			}
		}
	}

	results := []operation.ComplexRead2Result{}
	for other := range others {
		deposits, err := st.expand(ctx, []edgeTable{deposits}, in, other, op.Window, op.Truncation)
		if err != nil {
			return err
		}
		loans := neighbours(deposits)
		if len(loans) == 0 {
			continue
		}
		res := operation.ComplexRead2Result{OtherID: other}
		for _, loanID := range loans {
			var amount, balance float64
			err := st.queryRow(ctx, "select loan_amount, balance from loan where id = ?", loanID).Scan(&amount, &balance)
			if errors.Is(err, sql.ErrNoRows) {
				continue
			} else if err != nil {
				return err
			}
			res.SumLoanAmount += amount
			res.SumLoanBalance += balance
		}
		res.SumLoanAmount = round3(res.SumLoanAmount)
		res.SumLoanBalance = round3(res.SumLoanBalance)
		results = append(results, res)
	}

	slices.SortFunc(results, func(a, b operation.ComplexRead2Result) int {
		return cmp.Or(cmp.Compare(b.SumLoanAmount, a.SumLoanAmount), cmp.Compare(a.OtherID, b.OtherID))
	})
	for _, res := range results {
		r.Report(res)
	}
	return nil
}

func complexRead3(ctx context.Context, op operation.ComplexRead3, s *Session, r driver.ResultReporter) error {
	length, err := s.store().shortestPath(ctx, op.SrcAccountID, op.DstAccountID, op.Window, 0)
	if err != nil {
		return err
	}
	r.Report(operation.ComplexRead3Result{ShortestPathLength: length})
	return nil
}

func complexRead4(ctx context.Context, op operation.ComplexRead4, s *Session, r driver.ResultReporter) error {
	st := s.store()
	direct, err := st.edges(ctx, transfers, out, op.SrcAccountID, op.Window)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(direct, func(e edge) bool { return e.other == op.DstAccountID }) {
		return nil
	}

	fromDst, err := st.edges(ctx, transfers, out, op.DstAccountID, op.Window)
	if err != nil {
		return err
	}
	toSrc, err := st.edges(ctx, transfers, in, op.SrcAccountID, op.Window)
	if err != nil {
		return err
	}

	edge2 := map[int64]*aggregate{}
	for _, e := range fromDst {
		if edge2[e.other] == nil {
			edge2[e.other] = &aggregate{}
		}
		edge2[e.other].add(e.amount)
	}
	edge3 := map[int64]*aggregate{}
	for _, e := range toSrc {
		if edge2[e.other] == nil {
			continue
		}
		if edge3[e.other] == nil {
			edge3[e.other] = &aggregate{}
		}
		edge3[e.other].add(e.amount)
	}

	results := []operation.ComplexRead4Result{}
	for other, e3 := range edge3 {
		e2 := edge2[other]
		results = append(results, operation.ComplexRead4Result{
			OtherID:        other,
			NumEdge2:       e2.num,
			SumEdge2Amount: round3(e2.sum),
			MaxEdge2Amount: round3(e2.max),
			NumEdge3:       e3.num,
			SumEdge3Amount: round3(e3.sum),
			MaxEdge3Amount: round3(e3.max),
		})
	}

	slices.SortFunc(results, func(a, b operation.ComplexRead4Result) int {
		return cmp.Or(cmp.Compare(b.SumEdge2Amount, a.SumEdge2Amount), cmp.Compare(b.SumEdge3Amount, a.SumEdge3Amount), cmp.Compare(a.OtherID, b.OtherID))
	})
	for _, res := range results {
		r.Report(res)
	}
	return nil
}

func complexRead5(ctx context.Context, op operation.ComplexRead5, s *Session, r driver.ResultReporter) error {
	st := s.store()
	accounts, err := st.ownedAccounts(ctx, "person", op.PersonID)
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	paths := [][]int64{}
	var walk func(path []int64, at hop) error
	walk = func(path []int64, at hop) error {
		if len(path) > maxHops {
			return nil
		}
		edges, err := st.expand(ctx, []edgeTable{transfers}, out, at.id, op.Window, op.Truncation)
		if err != nil {
			return err
		}
		for _, e := range edges {
			if !e.at.After(at.at) || slices.Contains(path, e.other) {
				continue
			}
			next := append(slices.Clone(path), e.other)
			if key := pathKey(next); !seen[key] {
				seen[key] = true
				paths = append(paths, next)
			}
			if err := walk(next, hop{id: e.other, at: e.at}); err != nil {
				return err
			}
		}
		return nil
	}
	for _, id := range accounts {
		if err := walk([]int64{id}, hop{id: id, at: beforeAll}); err != nil {
			return err
		}
	}

	slices.SortFunc(paths, func(a, b []int64) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), slices.Compare(a, b))
	})
	for _, p := range paths {
		r.Report(operation.ComplexRead5Result{Path: p})
	}
	return nil
}

func pathKey(path []int64) string {
	b := make([]byte, 0, len(path)*8)
	for _, id := range path {
		for i := 0; i < 8; i++ {
			b = append(b, byte(id>>(8*i)))
		}
	}
	return string(b)
}

func complexRead6(ctx context.Context, op operation.ComplexRead6, s *Session, r driver.ResultReporter) error {
	st := s.store()
	withdraws, err := st.expand(ctx, []edgeTable{withdraws}, in, op.AccountID, op.Window, op.Truncation)
	if err != nil {
		return err
	}

	edge2 := map[int64]float64{}
	mids := []int64{}
	for _, e := range above(withdraws, op.Threshold2) {
		if _, ok := edge2[e.other]; !ok {
			mids = append(mids, e.other)
		}
		edge2[e.other] += e.amount
	}

	results := []operation.ComplexRead6Result{}
	for _, mid := range mids {
		transfersIn, err := st.expand(ctx, []edgeTable{transfers}, in, mid, op.Window, op.Truncation)
		if err != nil {
			return err
		}
		edge1 := above(transfersIn, op.Threshold1)
		if len(edge1) == 0 {
			continue
		}
		results = append(results, operation.ComplexRead6Result{
			MidID:          mid,
			SumEdge1Amount: round3(sum(edge1)),
			SumEdge2Amount: round3(edge2[mid]),
		})
	}

	slices.SortFunc(results, func(a, b operation.ComplexRead6Result) int {
		return cmp.Or(cmp.Compare(b.SumEdge2Amount, a.SumEdge2Amount), cmp.Compare(a.MidID, b.MidID))
	})
	for _, res := range results {
		r.Report(res)
	}
	return nil
}

func complexRead7(ctx context.Context, op operation.ComplexRead7, s *Session, r driver.ResultReporter) error {
	st := s.store()
	transfersIn, err := st.expand(ctx, []edgeTable{transfers}, in, op.AccountID, op.Window, op.Truncation)
	if err != nil {
		return err
	}
	transfersOut, err := st.expand(ctx, []edgeTable{transfers}, out, op.AccountID, op.Window, op.Truncation)
	if err != nil {
		return err
	}
	edgesIn, edgesOut := above(transfersIn, op.Threshold), above(transfersOut, op.Threshold)

	r.Report(operation.ComplexRead7Result{
		NumSrc:     len(neighbours(edgesIn)),
		NumDst:     len(neighbours(edgesOut)),
		InOutRatio: ratio(sum(edgesIn), sum(edgesOut)),
	})
	return nil
}

func complexRead8(ctx context.Context, op operation.ComplexRead8, s *Session, r driver.ResultReporter) error {
	st := s.store()
	var loanAmount float64
	err := st.queryRow(ctx, "select loan_amount from loan where id = ?", op.LoanID).Scan(&loanAmount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	} else if err != nil {
		return err
	}

	deposited, err := st.expand(ctx, []edgeTable{deposits}, out, op.LoanID, op.Window, op.Truncation)
	if err != nil {
		return err
	}

	inflow := map[int64]float64{}
	distance := map[int64]int{}
	reach := func(e edge, depth int) hop {
		inflow[e.other] += e.amount
		if d, ok := distance[e.other]; !ok || depth < d {
			distance[e.other] = depth
		}
		return hop{id: e.other, at: e.at, amount: e.amount}
	}

	frontier := []hop{}
	for _, e := range deposited {
		frontier = append(frontier, reach(e, 1))
	}
	for depth := 2; depth <= maxHops && len(frontier) > 0; depth++ {
		next := []hop{}
		for _, h := range frontier {
			edges, err := st.expand(ctx, []edgeTable{transfers, withdraws}, out, h.id, op.Window, op.Truncation)
			if err != nil {
				return err
			}
			for _, e := range edges {
				if e.at.After(h.at) && e.amount > op.Threshold*h.amount {
					next = append(next, reach(e, depth))
				}
			}
		}
		frontier = next
	}

	results := []operation.ComplexRead8Result{}
	for dst, d := range distance {
		results = append(results, operation.ComplexRead8Result{
			DstID:               dst,
			Ratio:               ratio(inflow[dst], loanAmount),
			MinDistanceFromLoan: d,
		})
	}

	slices.SortFunc(results, func(a, b operation.ComplexRead8Result) int {
		return cmp.Or(cmp.Compare(b.MinDistanceFromLoan, a.MinDistanceFromLoan), cmp.Compare(b.Ratio, a.Ratio), cmp.Compare(a.DstID, b.DstID))
	})
	for _, res := range results {
		r.Report(res)
	}
	return nil
}

func complexRead9(ctx context.Context, op operation.ComplexRead9, s *Session, r driver.ResultReporter) error {
	st := s.store()
	amounts := make([]float64, 4)
	for i, step := range []struct {
		table edgeTable
		dir   direction
	}{
		{deposits, in},
		{repays, out},
		{transfers, in},
		{transfers, out},
	} {
		edges, err := st.expand(ctx, []edgeTable{step.table}, step.dir, op.AccountID, op.Window, op.Truncation)
		if err != nil {
			return err
		}
		amounts[i] = sum(above(edges, op.Threshold))
	}

	r.Report(operation.ComplexRead9Result{
		RatioRepay:    ratio(amounts[0], amounts[1]),
		RatioDeposit:  ratio(amounts[0], amounts[3]),
		RatioTransfer: ratio(amounts[2], amounts[3]),
	})
	return nil
}

func complexRead10(ctx context.Context, op operation.ComplexRead10, s *Session, r driver.ResultReporter) error {
	st := s.store()
	invested := func(personID int64) (map[int64]bool, error) {
		edges, err := st.edges(ctx, personInvests, out, personID, op.Window)
		if err != nil {
			return nil, err
		}
		companies := map[int64]bool{}
		for _, id := range neighbours(edges) {
			companies[id] = true
		}
		return companies, nil
	}

	first, err := invested(op.PersonID1)
	if err != nil {
		return err
	}
	second, err := invested(op.PersonID2)
	if err != nil {
		return err
	}

	common := 0
	for id := range first {
		if second[id] {
			common++
		}
	}
	similarity := 0.0
	if union := len(first) + len(second) - common; union > 0 {
		similarity = round3(float64(common) / float64(union))
	}
	r.Report(operation.ComplexRead10Result{JaccardSimilarity: similarity})
	return nil
}

// Returns the persons reachable through guarantees from personID, without personID
func (st store) guaranteeChain(ctx context.Context, personID int64, w operation.Window, tr operation.Truncation) ([]int64, error) {
	visited := map[int64]bool{personID: true}
	chain := []int64{}
	frontier := []int64{personID}
	for len(frontier) > 0 {
		next := []int64{}
		for _, id := range frontier {
			edges, err := st.expand(ctx, []edgeTable{personGuarantees}, out, id, w, tr)
			if err != nil {
				return nil, err
			}
			for _, other := range neighbours(edges) {
				if !visited[other] {
					visited[other] = true
					chain = append(chain, other)
					next = append(next, other)
				}
			}
		}
		frontier = next
	}
	return chain, nil
}

// Returns the amount and number of distinct loans the persons applied for
func (st store) appliedLoans(ctx context.Context, persons []int64, w operation.Window, tr operation.Truncation) (float64, int, error) {
	seen := map[int64]bool{}
	total := 0.0
	for _, id := range persons {
		edges, err := st.expand(ctx, []edgeTable{personApplies}, out, id, w, tr)
		if err != nil {
			return 0, 0, err
		}
		for _, loanID := range neighbours(edges) {
			if seen[loanID] {
				continue
			}
			seen[loanID] = true
			var amount float64
			err := st.queryRow(ctx, "select loan_amount from loan where id = ?", loanID).Scan(&amount)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return 0, 0, err
			}
			total += amount
		}
	}
	return total, len(seen), nil
}

func complexRead11(ctx context.Context, op operation.ComplexRead11, s *Session, r driver.ResultReporter) error {
	st := s.store()
	chain, err := st.guaranteeChain(ctx, op.PersonID, op.Window, op.Truncation)
	if err != nil {
		return err
	}
	total, loans, err := st.appliedLoans(ctx, chain, op.Window, op.Truncation)
	if err != nil {
		return err
	}
	r.Report(operation.ComplexRead11Result{SumLoanAmount: round3(total), NumLoans: loans})
	return nil
}

func complexRead12(ctx context.Context, op operation.ComplexRead12, s *Session, r driver.ResultReporter) error {
	st := s.store()
	accounts, err := st.ownedAccounts(ctx, "person", op.PersonID)
	if err != nil {
		return err
	}

	sums := map[int64]float64{}
	for _, id := range accounts {
		edges, err := st.expand(ctx, []edgeTable{transfers}, out, id, op.Window, op.Truncation)
		if err != nil {
			return err
		}
		for _, e := range edges {
			sums[e.other] += e.amount
		}
	}

	results := []operation.ComplexRead12Result{}
	for dst, total := range sums {
		owners, err := st.accountOwnerKinds(ctx, dst)
		if err != nil {
			return err
		}
		if owners["company"] {
			results = append(results, operation.ComplexRead12Result{CompAccountID: dst, SumEdge2Amount: round3(total)})
		}
	}

	slices.SortFunc(results, func(a, b operation.ComplexRead12Result) int {
		return cmp.Or(cmp.Compare(b.SumEdge2Amount, a.SumEdge2Amount), cmp.Compare(a.CompAccountID, b.CompAccountID))
	})
	for _, res := range results {
		r.Report(res)
	}
	return nil
}
