/*
Package patch applies ordered find-and-replace plans to text documents.

	+-----------+      +-----------+      +-----------+
	|   Plan    | ---> |  Engine   | ---> |  Report   |
	| (ordered  |      | (strict / |      | (status   |
	|  edits)   |      | best-eff) |      |  per op)  |
	+-----------+      +-----+-----+      +-----------+
	                         |
	                   +-----+-----+
	                   |   match   |
	                   | (Locate)  |
	                   +-----------+

🎯 Purpose:
- Apply several dependent edits to one buffer as a single logical change
- Refuse to edit on a missing or ambiguous fragment
- Report exactly which edits applied, were skipped, or failed

🔄 Flow:
1. Preconditions are checked against the loaded document
2. Each operation is located in the latest buffer
3. An operation applies only when its match count equals the expected count
4. Strict runs stop at the first failure and return no document
5. Best-effort runs record the failure and keep going

⚡ Statuses:
- applied: matched the expected number of times and was replaced
- skipped: optional and matched nothing
- not-found: matched fewer times than expected
- ambiguous: matched more times than expected (never treated as "replace all")
- not-run: the run stopped before reaching it

🔍 Example:

	op, err := patch.Replace(`<View style={styles.activityList}>`, `<ScrollView>`)
	if err != nil {
		return err
	}
	plan, err := patch.NewPlan("scroll", "app/pipeline.tsx", []patch.Operation{op})
	if err != nil {
		return err
	}
	report := patch.NewEngine().Apply(doc, plan, patch.PolicyStrict)
	if out, ok := report.Document(); ok {
		// persist out
	}
*/
package patch
