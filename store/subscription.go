package store

import "sync"

// Subscription -> handle satu watch aktif. Snapshot dikirim berurutan per
// subscriber; channel wajib dilepas lewat Close supaya tidak ada watch
// yang bocor setelah screen pemiliknya hilang.
type Subscription struct {
	Query Query

	store     *Store
	ch        chan Snapshot
	closeOnce sync.Once
}

// Snapshots mengembalikan stream snapshot full-state, terurut.
func (s *Subscription) Snapshots() <-chan Snapshot {
	return s.ch
}

// Close melepaskan subscription dan menutup channel-nya. Aman dipanggil
// lebih dari sekali.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.store.unsubscribe(s)
		close(s.ch)
	})
}

// push mengirim tanpa blocking; subscriber yang tertinggal jauh kehilangan
// snapshot lama, snapshot berikutnya tetap full state jadi tidak ada drift.
func (s *Subscription) push(snap Snapshot) {
	select {
	case s.ch <- snap:
	default:
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- snap:
		default:
		}
	}
}
