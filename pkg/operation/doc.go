/*
Package operation runs patch plans against document stores.

	+-------------+      +-------------+      +-------------+
	|    Store    | ---> |   Engine    | ---> |    Store    |
	|   (Load)    |      |  (Apply)    |      |   (Save)    |
	+-------------+      +------+------+      +------+------+
	                            |                    |
	                     +------+------+      +------+------+
	                     |   Console   |      |   Journal   |
	                     | (op lines)  |      |  (Record)   |
	                     +-------------+      +-------------+

🎯 Purpose:
- Orchestrates one load, one engine run and at most one save per plan
- Records saved runs in the journal so later runs can tell applied from pending
- Keeps match anomalies in the report; only store and journal failures are errors

🔄 Flow:
1. Apply loads the plan's target
2. The engine applies the plan under its policy (or the runner's override)
3. A successful strict run, or a best-effort run when partial saves are allowed,
   is written back and recorded
4. Per-operation lines go to the console

⚡ Commands:
- Apply / ApplyAll: write changes
- Check: dry run; targets are evaluated concurrently, plans on one target in order
- Status: journal state per plan, read-only

🔍 Example:

	runner, err := operation.New(operation.Options{
		Store:   store.NewFileStore("."),
		Journal: j,
		Console: log.New(os.Stdout, zerolog.Nop()),
	})
	if err != nil {
		return err
	}
	res, err := runner.Apply(ctx, plan)
*/
package operation
