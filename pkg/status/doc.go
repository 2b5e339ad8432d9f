/*
Package status renders runner events for a terminal.

	+-----------+   events   +------------+
	|  Runner   | ─────────► |  Reporter  |
	+-----------+            +-----+------+
	                               |
	                 +-------------+-------------+
	                 |                           |
	          +------+------+             +------+------+
	          | progress bar|             |  log.Logger |
	          |   (pterm)   |             |   (rows)    |
	          +-------------+             +-------------+

🎯 Purpose:
- Show progress of the running relocation
- Print one row per finished file with its status
- Count moved, failed and rejected files for the final summary

⚡ Notes:
- Reporter implements operation.Listener and is safe to share between tasks
- The console log.Logger is taken from the context passed to New
- Without a progress bar, checkpoints are printed only in verbose mode
- StatusText maps relocation errors to the short status column

🔍 Example:

	ctx = log.NewContext(ctx, log.New(os.Stdout, *zerolog.Ctx(ctx)))
	reporter := status.New(ctx, os.Stdout, status.WithProgressBar(true))
	runner := operation.NewRunner(relocate.New(), operation.WithListener(reporter))
	...
	summary := reporter.Finish()
*/
package status
