// SPDX-License-Identifier: MIT
// Package grid: communicators and collectives. One Comm handle per member;
// handles of the same communicator share the inbox channels. Collectives
// are free generic functions because Go methods cannot add type
// parameters.

package grid

import (
	"fmt"

	"github.com/katalvlaran/lvlblas/dense"
)

// packet is one message in flight: origin rank, a tag identifying the
// collective round, and the payload.
type packet struct {
	src     int
	tag     int
	payload any
}

// Comm is one member's handle on a communicator of size processes.
// A handle belongs to a single goroutine and must not be shared.
type Comm struct {
	rank    int
	size    int
	inboxes []chan packet // shared across all members' handles
	round   int           // advances in lockstep via the SPMD contract
	pending []packet      // packets read while waiting for a different tag
}

// Operation tags, folded into the low byte of every message tag so a
// collective can never consume a packet from a different kind of call.
const (
	tagBcast = iota + 1
	tagReduce
	tagShift
	tagAllToAll
	tagBarrier
)

// newComm builds the size member handles of a fresh communicator.
func newComm(size int) []*Comm {
	inboxes := make([]chan packet, size)
	for i := range inboxes {
		// Headroom for one full all-to-all round per sender plus slack, so
		// collectives can post all their sends before draining receives.
		inboxes[i] = make(chan packet, 4*size+16)
	}
	members := make([]*Comm, size)
	for r := range members {
		members[r] = &Comm{rank: r, size: size, inboxes: inboxes}
	}

	return members
}

// Rank reports this member's rank within the communicator.
func (c *Comm) Rank() int { return c.rank }

// Size reports the number of members.
func (c *Comm) Size() int { return c.size }

// nextTag advances the round counter and returns the composed tag.
// Every member advances identically because every member makes the same
// collective calls in the same order.
func (c *Comm) nextTag(op int) int {
	c.round++

	return c.round<<8 | op
}

// send posts a packet to dst's inbox. Blocks only when dst's inbox is
// full, which resolves as soon as dst performs any receive.
func (c *Comm) send(dst, tag int, payload any) {
	c.inboxes[dst] <- packet{src: c.rank, tag: tag, payload: payload}
}

// recv returns the payload of the packet from src carrying tag, buffering
// any packets that arrive out of order.
func (c *Comm) recv(src, tag int) any {
	for i, p := range c.pending {
		if p.src == src && p.tag == tag {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)

			return p.payload
		}
	}
	for {
		p := <-c.inboxes[c.rank]
		if p.src == src && p.tag == tag {
			return p.payload
		}
		c.pending = append(c.pending, p)
	}
}

// checkRank validates a peer rank against the communicator size.
func (c *Comm) checkRank(what string, r int) error {
	if r < 0 || r >= c.size {
		return fmt.Errorf("%s rank %d of %d: %w", what, r, c.size, ErrBadRank)
	}

	return nil
}

// cloneSlice copies s so sender and receiver never alias storage.
func cloneSlice[E any](s []E) []E {
	out := make([]E, len(s))
	copy(out, s)

	return out
}

// asSlice recovers a typed slice from a received payload.
func asSlice[E any](payload any) ([]E, error) {
	s, ok := payload.([]E)
	if !ok {
		return nil, fmt.Errorf("got %T: %w", payload, ErrPayload)
	}

	return s, nil
}

// Bcast distributes root's buf to every member and returns each member's
// own copy. Non-root members may pass nil.
//
// Complexity: O(size) messages from root.
func Bcast[E any](c *Comm, root int, buf []E) ([]E, error) {
	if err := c.checkRank("Bcast root", root); err != nil {
		return nil, err
	}
	tag := c.nextTag(tagBcast)
	if c.rank == root {
		for dst := 0; dst < c.size; dst++ {
			if dst != root {
				c.send(dst, tag, cloneSlice(buf))
			}
		}

		return buf, nil
	}

	return asSlice[E](c.recv(root, tag))
}

// AllReduceSum replaces buf on every member with the elementwise sum of
// all members' bufs. Contributions are accumulated in rank order, so the
// result is bitwise identical on every member. All bufs must share one
// length; mismatches surface as ErrPayload.
//
// Complexity: O(size^2) messages across the communicator.
func AllReduceSum[T dense.Scalar](c *Comm, buf []T) error {
	tag := c.nextTag(tagReduce)
	for dst := 0; dst < c.size; dst++ {
		if dst != c.rank {
			c.send(dst, tag, cloneSlice(buf))
		}
	}

	// Rebuild the sum from rank 0 upward, own contribution in rank order.
	sum := make([]T, len(buf))
	for src := 0; src < c.size; src++ {
		contrib := buf
		if src != c.rank {
			var err error
			if contrib, err = asSlice[T](c.recv(src, tag)); err != nil {
				return err
			}
			if len(contrib) != len(buf) {
				return fmt.Errorf("AllReduceSum length %d vs %d: %w", len(contrib), len(buf), ErrPayload)
			}
		}
		for i, v := range contrib {
			sum[i] += v
		}
	}
	copy(buf, sum)

	return nil
}

// SendRecvReplace sends buf to dst, receives a buffer from src, and
// returns the received buffer. dst and src may equal the caller's rank.
func SendRecvReplace[E any](c *Comm, buf []E, dst, src int) ([]E, error) {
	if err := c.checkRank("SendRecvReplace dst", dst); err != nil {
		return nil, err
	}
	if err := c.checkRank("SendRecvReplace src", src); err != nil {
		return nil, err
	}
	tag := c.nextTag(tagShift)
	c.send(dst, tag, cloneSlice(buf))

	return asSlice[E](c.recv(src, tag))
}

// AllToAll sends out[i] to member i and returns in, where in[i] is the
// buffer received from member i. len(out) must equal the communicator
// size. Empty slices are still sent, which makes the call synchronizing:
// no member returns before every member has entered.
//
// Complexity: O(size^2) messages across the communicator.
func AllToAll[E any](c *Comm, out [][]E) ([][]E, error) {
	if len(out) != c.size {
		return nil, fmt.Errorf("AllToAll %d buffers for %d members: %w", len(out), c.size, ErrBadRank)
	}
	tag := c.nextTag(tagAllToAll)
	for dst := 0; dst < c.size; dst++ {
		if dst != c.rank {
			c.send(dst, tag, cloneSlice(out[dst]))
		}
	}
	in := make([][]E, c.size)
	in[c.rank] = cloneSlice(out[c.rank])
	for src := 0; src < c.size; src++ {
		if src == c.rank {
			continue
		}
		recvd, err := asSlice[E](c.recv(src, tag))
		if err != nil {
			return nil, err
		}
		in[src] = recvd
	}

	return in, nil
}

// Barrier blocks until every member has entered.
func Barrier(c *Comm) {
	tag := c.nextTag(tagBarrier)
	for dst := 0; dst < c.size; dst++ {
		if dst != c.rank {
			c.send(dst, tag, nil)
		}
	}
	for src := 0; src < c.size; src++ {
		if src != c.rank {
			c.recv(src, tag)
		}
	}
}
