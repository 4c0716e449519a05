package queue

import (
	"fmt"
	"time"
)

func ExampleQueue() {
	// Create a queue that holds at most 2 jobs, each for at most a minute
	q, err := New[string](Options{
		MaxQueueTime: time.Minute,
		MaxQueueSize: 2,
	})
	if err != nil {
		panic(err)
	}
	defer q.Stop()

	// Jobs refused admission are handed to subscribers, synchronously inside Push
	q.OnRejected(func(job Job[string]) {
		fmt.Println("Rejected:", job())
	})

	_ = q.Push(func() string { return "first" })
	_ = q.Push(func() string { return "second" })
	// The queue is full, so this job is rejected
	_ = q.Push(func() string { return "third" })

	// Batch drains the queue in FIFO order
	for _, job := range q.Batch() {
		fmt.Println("Pulled:", job())
	}
	// Output:
	// Rejected: third
	// Pulled: first
	// Pulled: second
}
