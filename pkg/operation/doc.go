/*
Package operation runs relocations one at a time in the background and
narrates them as a stream of events.

	 Submit ──► +--------+  busy?  ──► EventBusy + ErrBusy
	            | Runner |
	            +---+----+
	                | worker goroutine
	                v
	   +------------+-------------+
	   | relocate.Relocate + obs  |
	   +------------+-------------+
	                |
	   EventLog ─ EventProgress ─ EventDone
	                |
	      Task.Events() + Listeners

🎯 Purpose:
- Keep the caller responsive while a file is relocated
- Reject, never queue, a second submission while one is in flight
- Turn relocation steps into log lines and progress checkpoints

🔄 Event order for one task:
 1. "Started processing file: <source>"
 2. "Step N: <label>..." before each step, a progress checkpoint after it
 3. "File renamed and moved to: <destination>" or "Error processing file: <error>"
 4. a final progress of 100, failure included
 5. EventDone

📊 Progress modes:
- steps: 25, 50, 75, 100
- ramp: every integer from 0 to 100, paced by the ramp interval

⚡ Guarantees:
- At most one task runs at any instant
- Progress of a task never decreases and always ends at 100
- The runner is idle again before listeners see EventDone, so a listener
  may submit the next file from its done handler
- Failures are reported through events and Task.Result, never by panicking
  or by tearing down the caller

🔍 Example:

	runner := operation.NewRunner(relocate.New(), operation.WithListener(reporter))
	task, err := runner.Submit(ctx, req)
	if errors.Is(err, operation.ErrBusy) {
		return nil
	}
	dst, err := task.Result()
*/
package operation
