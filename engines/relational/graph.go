package relational

import (
	"context"
	"fmt"
	"time"

	"finbench/operation"
	"finbench/truncation"
)

type direction int

const (
	out direction = iota
	in
)

// edgeTable describes how to read one kind of edge. Edges without an amount read 0.
type edgeTable struct {
	name   string
	src    string
	dst    string
	amount string
	where  string
}

var (
	transfers        = edgeTable{name: "transfer", src: "src_id", dst: "dst_id", amount: "amount"}
	withdraws        = edgeTable{name: "withdraw", src: "src_id", dst: "dst_id", amount: "amount"}
	repays           = edgeTable{name: "repay", src: "account_id", dst: "loan_id", amount: "amount"}
	deposits         = edgeTable{name: "deposit", src: "loan_id", dst: "account_id", amount: "amount"}
	signIns          = edgeTable{name: "sign_in", src: "medium_id", dst: "account_id", amount: "0.0"}
	personGuarantees = edgeTable{name: "guarantee", src: "src_id", dst: "dst_id", amount: "0.0", where: "guarantor_kind = 'person'"}
	personApplies    = edgeTable{name: "apply", src: "owner_id", dst: "loan_id", amount: "0.0", where: "owner_kind = 'person'"}
	personInvests    = edgeTable{name: "invest", src: "investor_id", dst: "company_id", amount: "ratio", where: "investor_kind = 'person'"}
)

// edge is one row seen from the vertex it was expanded from
type edge struct {
	seq    int64
	other  int64
	at     time.Time
	amount float64
}

func (e edge) TruncationKey() truncation.Key {
	return truncation.Key{Timestamp: e.at, Amount: e.amount, ID: e.other, Seq: e.seq}
}

// Returns the edges of id in the window, in insertion order
func (st store) edges(ctx context.Context, t edgeTable, dir direction, id int64, w operation.Window) ([]edge, error) {
	self, other := t.src, t.dst
	if dir == in {
		self, other = t.dst, t.src
	}
	filter := ""
	if t.where != "" {
		filter = " and " + t.where
	}
	query := fmt.Sprintf(`
		select seq, %s, create_time, %s
		from %s
		where %s = ? and create_time >= ? and create_time < ?%s
		order by seq`, other, t.amount, t.name, self, filter)

	rows, err := st.query(ctx, query, id, millis(w.StartTime), millis(w.EndTime))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edges := []edge{}
	for rows.Next() {
		var e edge
		var at int64
		if err := rows.Scan(&e.seq, &e.other, &at, &e.amount); err != nil {
			return nil, err
		}
		e.at = fromMillis(at)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Returns the edges of id in the window across tables, bounded by the truncation policy
func (st store) expand(ctx context.Context, tables []edgeTable, dir direction, id int64, w operation.Window, tr operation.Truncation) ([]edge, error) {
	all := []edge{}
	for _, t := range tables {
		edges, err := st.edges(ctx, t, dir, id, w)
		if err != nil {
			return nil, err
		}
		all = append(all, edges...)
	}
	return truncation.Truncate(tr.TruncationOrder, all, tr.TruncationLimit), nil
}

// Keeps the edges whose amount exceeds threshold
func above(edges []edge, threshold float64) []edge {
	kept := []edge{}
	for _, e := range edges {
		if e.amount > threshold {
			kept = append(kept, e)
		}
	}
	return kept
}

// Returns the distinct neighbours of the edges, in first seen order
func neighbours(edges []edge) []int64 {
	seen := map[int64]bool{}
	ids := []int64{}
	for _, e := range edges {
		if !seen[e.other] {
			seen[e.other] = true
			ids = append(ids, e.other)
		}
	}
	return ids
}

// aggregate is the count, sum and maximum of edge amounts
type aggregate struct {
	num int
	sum float64
	max float64
}

func (a *aggregate) add(amount float64) {
	if a.num == 0 || amount > a.max {
		a.max = amount
	}
	a.num++
	a.sum += amount
}

func sum(edges []edge) float64 {
	total := 0.0
	for _, e := range edges {
		total += e.amount
	}
	return total
}

// Returns the accounts owned by a person or a company
func (st store) ownedAccounts(ctx context.Context, ownerKind string, ownerID int64) ([]int64, error) {
	return st.ids(ctx, "select account_id from own where owner_kind = ? and owner_id = ? order by account_id", ownerKind, ownerID)
}

// Returns the kinds of the owners of an account
func (st store) accountOwnerKinds(ctx context.Context, accountID int64) (map[string]bool, error) {
	rows, err := st.query(ctx, "select owner_kind from own where account_id = ?", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	kinds := map[string]bool{}
	for rows.Next() {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			return nil, err
		}
		kinds[kind] = true
	}
	return kinds, rows.Err()
}

// hop is a vertex reached at a given time, with the amount of the edge that reached it
type hop struct {
	id     int64
	at     time.Time
	amount float64
}

var (
	beforeAll = time.Time{}
	afterAll  = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Expands transfers from the frontier in time order: forwards, edges must be later than
// the edge that reached a vertex; backwards, earlier. Per vertex only the arrival that
// admits the most continuations is kept.
func (st store) inOrderStep(ctx context.Context, frontier []hop, dir direction, w operation.Window, tr operation.Truncation) ([]hop, error) {
	earliest := map[int64]time.Time{}
	order := []int64{}
	for _, h := range frontier {
		edges, err := st.expand(ctx, []edgeTable{transfers}, dir, h.id, w, tr)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if dir == out && !e.at.After(h.at) {
				continue
			}
			if dir == in && !e.at.Before(h.at) {
				continue
			}
			prev, seen := earliest[e.other]
			if !seen {
				order = append(order, e.other)
			}
			if !seen || (dir == out && e.at.Before(prev)) || (dir == in && e.at.After(prev)) {
				earliest[e.other] = e.at
			}
		}
	}

	next := make([]hop, 0, len(order))
	for _, id := range order {
		next = append(next, hop{id: id, at: earliest[id]})
	}
	return next, nil
}

// Returns the length of the shortest transfer path from src to dst in the window,
// or -1 when there is none
func (st store) shortestPath(ctx context.Context, src, dst int64, w operation.Window, maxHops int) (int, error) {
	if src == dst {
		return 0, nil
	}
	visited := map[int64]bool{src: true}
	frontier := []int64{src}
	for depth := 1; len(frontier) > 0 && (maxHops <= 0 || depth <= maxHops); depth++ {
		next := []int64{}
		for _, id := range frontier {
			edges, err := st.edges(ctx, transfers, out, id, w)
			if err != nil {
				return 0, err
			}
			for _, e := range edges {
				if e.other == dst {
					return depth, nil
				}
				if !visited[e.other] {
					visited[e.other] = true
					next = append(next, e.other)
				}
			}
		}
		frontier = next
	}
	return -1, nil
}
