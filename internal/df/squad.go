package df

import (
	"encoding/json"
	"math"

	"github.com/f3rmion/dfscope/internal/layout"
)

// SquadOrder is the kind of an order given to a squad or one of its members.
type SquadOrder int32

// Squad order kinds.
const (
	OrderNone   SquadOrder = -1
	OrderMove   SquadOrder = 0
	OrderKill   SquadOrder = 1
	OrderDefend SquadOrder = 2
	OrderPatrol SquadOrder = 3
	OrderTrain  SquadOrder = 4
)

var orderNames = map[SquadOrder]string{
	OrderNone:   "None",
	OrderMove:   "Move",
	OrderKill:   "Kill",
	OrderDefend: "Defend",
	OrderPatrol: "Patrol",
	OrderTrain:  "Train",
}

// classifyOrder maps a raw order tag to its kind. Unknown tags are OrderNone.
func classifyOrder(raw int32) SquadOrder {
	o := SquadOrder(raw)
	if o < OrderMove || o > OrderTrain {
		return OrderNone
	}
	return o
}

func (o SquadOrder) String() string { return orderNames[classifyOrder(int32(o))] }

// MarshalJSON encodes the order by name.
func (o SquadOrder) MarshalJSON() ([]byte, error) { return json.Marshal(o.String()) }

// UnmarshalJSON decodes an order name.
func (o *SquadOrder) UnmarshalJSON(data []byte) (err error) {
	*o, err = unmarshalName(data, OrderNone, OrderMove, OrderKill, OrderDefend, OrderPatrol, OrderTrain)
	return err
}

// Squad is a military unit.
type Squad struct {
	ID      int32  `json:"id"`
	Name    string `json:"name"`
	Address uint64 `json:"-"`
	// Members maps a slot index to the occupying historical figure id.
	Members map[int]int32 `json:"members"`
	// Order is the current squad-wide order.
	Order SquadOrder `json:"order"`
	// MemberOrders are current orders aimed at one member, by figure id.
	MemberOrders map[int32]SquadOrder `json:"member_orders,omitempty"`
	// Scheduled are this month's scheduled orders, by figure id.
	Scheduled     map[int32]SquadOrder `json:"scheduled,omitempty"`
	CarryFood     bool                 `json:"carry_food"`
	CarryWater    bool                 `json:"carry_water"`
	AmmoPerMember int32                `json:"ammo_per_member"`
}

// OrderFor returns the order that currently applies to a member: a direct
// order first, then the squad-wide order, then the schedule.
func (q *Squad) OrderFor(histID int32) SquadOrder {
	if o, ok := q.MemberOrders[histID]; ok && o != OrderNone {
		return o
	}
	if q.Order != OrderNone {
		return q.Order
	}
	if o, ok := q.Scheduled[histID]; ok {
		return o
	}
	return OrderNone
}

// Size returns the number of occupied slots.
func (q *Squad) Size() int {
	n := 0
	for _, id := range q.Members {
		if id >= 0 {
			n++
		}
	}
	return n
}

func (s *session) readSquads() map[int32]*Squad {
	squads := make(map[int32]*Squad)
	for _, p := range s.r.Pointers(s.global("squad_vector")) {
		q := s.readSquad(p)
		squads[q.ID] = q
	}
	return squads
}

func (s *session) readSquad(addr uint64) *Squad {
	q := &Squad{
		ID:           s.r.I32(s.at(addr, layout.Squad, "id")),
		Address:      addr,
		Members:      make(map[int]int32),
		Order:        OrderNone,
		MemberOrders: make(map[int32]SquadOrder),
		Scheduled:    make(map[int32]SquadOrder),
	}

	q.Name = s.r.String(s.at(addr, layout.Squad, "alias"))
	if q.Name == "" {
		n := s.readName(s.at(addr, layout.Squad, "name"))
		q.Name = n.Last
		if n.English != "" {
			q.Name = n.English
		}
	}

	s.readSquadMembers(q)
	s.readSquadOrders(q)
	s.readScheduledOrders(q)
	return q
}

func (s *session) readSquadMembers(q *Squad) {
	occupant := s.off(layout.Squad, "position_occupant")
	members := 0
	for i, p := range s.r.Pointers(s.at(q.Address, layout.Squad, "members")) {
		id := int32(-1)
		if p != 0 {
			id = s.r.I32(p + occupant)
		}
		q.Members[i] = id
		if id >= 0 {
			members++
		}
	}

	q.CarryFood = s.r.I16(s.at(q.Address, layout.Squad, "carry_food")) != 0
	q.CarryWater = s.r.I16(s.at(q.Address, layout.Squad, "carry_water")) != 0

	qty := s.off(layout.Squad, "ammunition_qty")
	var ammo int64
	for _, p := range s.r.Pointers(s.at(q.Address, layout.Squad, "ammunition")) {
		ammo += int64(s.r.I32(p + qty))
	}
	if members > 0 && ammo > 0 {
		q.AmmoPerMember = int32(math.Ceil(float64(ammo) / float64(members)))
	}
}

func (s *session) readSquadOrders(q *Squad) {
	target := s.off(layout.Squad, "histfig_id")
	for _, p := range s.r.Pointers(s.at(q.Address, layout.Squad, "orders")) {
		s.applyOrder(q, p, s.r.I32(p+target))
	}
}

func (s *session) applyOrder(q *Squad, order uint64, histID int32) {
	kind := classifyOrder(s.vtableTag(order, s.off(layout.Squad, "order_type_vfunc")))
	if histID >= 0 {
		q.MemberOrders[histID] = kind
		return
	}
	q.Order = kind
}

// readScheduledOrders resolves the alert's monthly schedule entry for the
// current month. Each slot's assignment indexes the entry's order list.
func (s *session) readScheduledOrders(q *Squad) {
	schedules := s.r.Pointers(s.at(q.Address, layout.Squad, "schedule"))
	alert := s.r.I32(s.at(q.Address, layout.Squad, "alert"))
	if alert < 0 || int(alert) >= len(schedules) || schedules[alert] == 0 {
		return
	}

	entry := schedules[alert] + uint64(s.now.Month())*s.off(layout.Squad, "sched_size")
	orders := s.r.Pointers(s.at(entry, layout.Squad, "sched_orders"))
	assigned := s.r.Int32s(s.at(entry, layout.Squad, "sched_assigned"))
	slot := s.off(layout.Squad, "order_type_vfunc")

	for pos, idx := range assigned {
		histID, ok := q.Members[pos]
		if !ok || histID < 0 {
			continue
		}
		if q.Order != OrderNone {
			q.Scheduled[histID] = q.Order
			continue
		}
		if idx < 0 || int(idx) >= len(orders) {
			continue
		}
		order := s.r.Ptr(orders[idx])
		q.Scheduled[histID] = classifyOrder(s.vtableTag(order, slot))
	}
}
