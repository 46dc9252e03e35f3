package patch_test

import (
	"fmt"

	"github.com/walteh/patchrc/pkg/patch"
)

func ExampleEngine_Apply() {
	// Build the operations; regex patterns are compiled here, not at apply time
	rename, _ := patch.ReplaceRegex(`foo(\d+)`, "", "foo_$1")
	tag, _ := patch.Replace("foo_7", "<foo_7>")

	plan, err := patch.NewPlan("rename", "notes.txt", []patch.Operation{rename, tag})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	report := patch.NewEngine().Apply("item foo7 here", plan, patch.PolicyStrict)
	doc, _ := report.Document()

	for _, res := range report.Results() {
		fmt.Printf("op %d: %s\n", res.Index, res.Status)
	}
	fmt.Printf("Document: %s\n", doc)
	fmt.Printf("Success: %v\n", report.Success())

	// Output:
	// op 0: applied
	// op 1: applied
	// Document: item <foo_7> here
	// Success: true
}

func ExampleEngine_Apply_bestEffort() {
	open, _ := patch.Replace("<View>", "<ScrollView>")
	closing, _ := patch.Replace("</View>", "</ScrollView>")
	plan := patch.MustPlan("scroll", "page.tsx", []patch.Operation{open, closing})

	// the closing tag appears twice, so that edit is ambiguous
	report := patch.NewEngine().Apply("<View><Text/></View></View>", plan, patch.PolicyBestEffort)
	doc, _ := report.Document()

	fmt.Println(report.Summary())
	fmt.Printf("Document: %s\n", doc)

	// Output:
	// scroll: failed (best-effort) applied=1 skipped=0 not-found=0 ambiguous=1 not-run=0
	// Document: <ScrollView><Text/></View></View>
}
