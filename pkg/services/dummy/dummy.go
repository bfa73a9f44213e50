/*
 * Nuts bankid
 * Copyright (C) 2020. Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package dummy

import (
	"errors"
	"regexp"
	"sync"

	"github.com/google/uuid"
)

// order states, advanced by every collect call
const (
	stateCreated orderState = iota
	stateOutstanding
	stateUserSign
	stateComplete
	stateCancelled
)

type orderState int

var (
	errAlreadyInProgress = errors.New("order already in progress for personal number")
	errNoSuchOrder       = errors.New("no such order")
	errPersonalNumber    = errors.New("incorrect personal number")
)

var personalNumberPattern = regexp.MustCompile(`^\d{12}$`)

// Dummy is a BankID server that keeps its orders in memory. It follows the BankID rule that starting a second order
// for a personal number with a pending order cancels both. Orders complete on the third collect call.
// It is not supposed to be used in a clustered context.
type Dummy struct {
	mutex    sync.Mutex
	orders   map[string]*order
	pending  map[string]string
	requests map[string]int
}

type order struct {
	ref            string
	personalNumber string
	endUserIP      string
	autoStartToken string
	qrStartToken   string
	qrStartSecret  string
	sign           bool
	state          orderState
}

// New returns an empty Dummy
func New() *Dummy {
	return &Dummy{
		orders:   map[string]*order{},
		pending:  map[string]string{},
		requests: map[string]int{},
	}
}

// Requests returns how many times an operation was called, e.g. "auth" or "Authenticate"
func (d *Dummy) Requests(operation string) int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.requests[operation]
}

func (d *Dummy) count(operation string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.requests[operation]++
}

func (d *Dummy) start(personalNumber, endUserIP string, sign bool) (*order, error) {
	if !personalNumberPattern.MatchString(personalNumber) {
		return nil, errPersonalNumber
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if ref, ok := d.pending[personalNumber]; ok {
		d.orders[ref].state = stateCancelled
		delete(d.pending, personalNumber)
		return nil, errAlreadyInProgress
	}

	o := &order{
		ref:            uuid.New().String(),
		personalNumber: personalNumber,
		endUserIP:      endUserIP,
		autoStartToken: uuid.New().String(),
		qrStartToken:   uuid.New().String(),
		qrStartSecret:  uuid.New().String(),
		sign:           sign,
		state:          stateCreated,
	}
	d.orders[o.ref] = o
	d.pending[personalNumber] = o.ref
	return o, nil
}

// collect returns a copy of the order after moving it one state further
func (d *Dummy) collect(orderRef string) (order, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	o, ok := d.orders[orderRef]
	if !ok {
		return order{}, errNoSuchOrder
	}
	if o.state < stateComplete {
		o.state++
	}
	if o.state == stateComplete {
		delete(d.pending, o.personalNumber)
	}
	return *o, nil
}

func (d *Dummy) cancel(orderRef string) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	o, ok := d.orders[orderRef]
	if !ok {
		return errNoSuchOrder
	}
	delete(d.orders, orderRef)
	if d.pending[o.personalNumber] == orderRef {
		delete(d.pending, o.personalNumber)
	}
	return nil
}

// Pending returns the reference of the pending order of a personal number
func (d *Dummy) Pending(personalNumber string) (string, bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	ref, ok := d.pending[personalNumber]
	return ref, ok
}
