// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/bibletranslationtools/docweave/pkg/assemble"
	"github.com/bibletranslationtools/docweave/pkg/resource"
)

// State is the lifecycle phase of a submitted document task.
type State string

const (
	StatePending State = "PENDING"
	StateStarted State = "STARTED"
	StateSuccess State = "SUCCESS"
	StateFailure State = "FAILURE"
)

// TaskStatus is the externally visible snapshot of one task. Result carries
// the document key once the task succeeds.
type TaskStatus struct {
	State  State    `json:"state"`
	Result string   `json:"result,omitempty"`
	Reason string   `json:"reason,omitempty"`
	Notes  []string `json:"notes,omitempty"`
}

// Registry runs submitted document requests asynchronously and answers
// status polls. Tasks live in memory only; a restart forgets them.
type Registry struct {
	base context.Context
	o    *Orchestrator

	mu    sync.RWMutex
	tasks map[string]TaskStatus
}

// NewRegistry wires a registry to an orchestrator. base bounds the lifetime
// of every task the registry spawns.
func NewRegistry(base context.Context, o *Orchestrator) *Registry {
	return &Registry{base: base, o: o, tasks: map[string]TaskStatus{}}
}

// Submit queues one document request and returns its task id immediately.
func (g *Registry) Submit(reqs []resource.Request, cfg assemble.Config) string {
	id := uuid.New().String()
	g.set(id, TaskStatus{State: StatePending})
	go g.run(id, reqs, cfg)
	return id
}

// Status reports a submitted task; ok is false for unknown ids.
func (g *Registry) Status(id string) (TaskStatus, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.tasks[id]
	return s, ok
}

func (g *Registry) run(id string, reqs []resource.Request, cfg assemble.Config) {
	g.set(id, TaskStatus{State: StateStarted})
	res, err := g.o.Generate(g.base, reqs, cfg)
	if err != nil {
		klog.Errorf("task %s failed: %v", id, err)
		g.set(id, TaskStatus{State: StateFailure, Reason: err.Error()})
		return
	}
	klog.V(2).Infof("task %s finished: document %s", id, res.Key)
	g.set(id, TaskStatus{State: StateSuccess, Result: res.Key, Notes: res.Notes})
}

func (g *Registry) set(id string, s TaskStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tasks[id] = s
}
