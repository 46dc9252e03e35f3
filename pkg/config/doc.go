/*
Package config loads plan files for patchrc.

	            +-------------+
	            |  Plan file  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+
	                   |
	            +------+------+
	            | patch.Plan  |
	            +-------------+

🎯 Purpose:
- Plans are data: a plan file lists named plans, each with a target and ordered edits
- Every edit declares its match mode (find or regex)
- Regex patterns and preconditions are compiled while loading, so configuration
  errors surface before any document is read

🔄 Flow:
1. Load picks a parser by extension
2. The parser decodes into Config (unknown fields are errors)
3. Validate builds every plan once
4. Select builds the plans a command asked for, filtered by name and target glob

🔍 Example:

	cfg, err := config.Load(ctx, ".patchrc.yaml")
	if err != nil {
		return err
	}
	plans, err := cfg.Select([]string{"scroll-activity"}, "app/(tabs)/pipeline.tsx")
*/
package config
