// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package jobs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bibletranslationtools/docweave/pkg/jobs"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestJobs(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Jobs Suite")
}

type task struct{}

var _ = Describe("Queue", func() {
	var (
		workers  int
		failFast bool
		work     jobs.WorkFunc
		ctx      context.Context
		queue    *jobs.Queue
		err      error
	)
	BeforeEach(func() {
		workers = 2
		failFast = false
		work = func(ctx context.Context, task interface{}) error {
			if task == nil {
				return errors.New("task is nil")
			}
			return nil
		}
		ctx = context.Background()
	})
	JustBeforeEach(func() {
		queue, err = jobs.NewQueue("TestQueue", workers, work, failFast)
	})
	When("creating a new queue", func() {
		It("creates the queue", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(queue).NotTo(BeNil())
		})
		Context("worker count is invalid", func() {
			BeforeEach(func() {
				workers = 101
			})
			It("should error", func() {
				Expect(queue).To(BeNil())
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("101"))
			})
		})
		Context("work func not set", func() {
			BeforeEach(func() {
				work = nil
			})
			It("should error", func() {
				Expect(queue).To(BeNil())
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("work func is nil"))
			})
		})
	})
	When("adding tasks to a queue that is not started", func() {
		JustBeforeEach(func() {
			Expect(queue.Add(struct{}{})).To(BeTrue())
			Expect(queue.Add(nil)).To(BeTrue())
			Expect(queue.Add(&task{})).To(BeTrue())
		})
		It("buffers the tasks for execution", func() {
			Expect(queue.Waiting()).To(Equal(3))
			Expect(queue.Processed()).To(Equal(0))
		})
	})
	When("adding tasks to a started queue", func() {
		JustBeforeEach(func() {
			queue.Start(ctx)
			Expect(queue.Add(struct{}{})).To(BeTrue())
			Expect(queue.Add(nil)).To(BeTrue())
			Expect(queue.Add(&task{})).To(BeTrue())
			queue.Wait()
		})
		It("processes the tasks", func() {
			Expect(queue.Processed()).To(Equal(3))
			Expect(queue.Waiting()).To(Equal(0))
		})
		It("reports errors from task processing", func() {
			Expect(queue.Errors()).NotTo(BeNil())
			Expect(queue.Errors().Unwrap()).To(Equal(errors.New("task is nil")))
		})
	})
	When("adding tasks to a stopped queue", func() {
		JustBeforeEach(func() {
			queue.Start(context.Background())
			queue.Stop()
		})
		It("skips the tasks", func() {
			Expect(queue.Add(struct{}{})).To(BeFalse())
			Expect(queue.Add(nil)).To(BeFalse())
			Expect(queue.Add(&task{})).To(BeFalse())
		})
	})
	When("fail fast strategy is set", func() {
		BeforeEach(func() {
			failFast = true
		})
		JustBeforeEach(func() {
			Expect(queue.Add(nil)).To(BeTrue())
			queue.Start(ctx)
			queue.Wait()
		})
		It("skips the tasks after the first error", func() {
			Expect(queue.Processed()).To(Equal(1))
			Expect(queue.Add(struct{}{})).To(BeFalse())
			Expect(queue.Add(&task{})).To(BeFalse())
			Expect(queue.Errors().Unwrap()).To(Equal(errors.New("task is nil")))
		})
	})
	When("the workers context is canceled", func() {
		var done context.CancelFunc
		BeforeEach(func() {
			ctx, done = context.WithCancel(context.Background())
		})
		JustBeforeEach(func() {
			queue.Start(ctx)
			done()
		})
		It("skips the tasks after cancellation", func() {
			Eventually(func() bool {
				return queue.Add(struct{}{})
			}).Should(BeFalse())
			Expect(queue.Add(nil)).To(BeFalse())
			Expect(queue.Add(&task{})).To(BeFalse())
		})
	})
	When("the work func panics", func() {
		BeforeEach(func() {
			work = func(ctx context.Context, task interface{}) error {
				if task == nil {
					panic("task is nil")
				}
				return nil
			}
		})
		JustBeforeEach(func() {
			queue.Start(ctx)
			Expect(queue.Add(struct{}{})).To(BeTrue())
			Expect(queue.Add(nil)).To(BeTrue())
			queue.Wait()
		})
		It("recovers the panic and reports an error", func() {
			Expect(queue.Processed()).To(Equal(2))
			Expect(queue.Errors()).NotTo(BeNil())
			Expect(queue.Errors().Error()).To(ContainSubstring("task is nil"))
		})
	})
})
