/*
Package events provides a publish/subscribe broker for poolsched
events.

The actuator publishes resize outcomes, the config watcher publishes
reloads and the evaluator publishes cycle summaries. Subscribers get a
buffered channel; slow subscribers drop events rather than blocking
the broker.

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	for event := range sub {
		fmt.Println(event.Type, event.Target, event.Message)
	}
*/
package events
