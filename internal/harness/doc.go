// Package harness runs filter conformance scenarios against HAR fixtures.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	har: ../../../har/testdata/sample.har
//	cases:
//	  - filter: 'status >= 400'
//	    expect: [2]
//	  - filter: 'isGraphQL'
//	    expect: [2]
//	    export: true
//	  - filter: 'status >='
//	    rejected: true
//
// The har path is relative to the scenario file. Expected indexes are
// 1-based positions in the HAR file, in file order.
//
// # Case Kinds
//
//   - expect: the filter compiles and selects exactly these entries
//   - rejected: the filter must fail to compile
//   - export: the selection is also written to an in-memory store and read
//     back, and the stored indexes must equal the expected ones
//
// # Deterministic Testing
//
// Each scenario runs against a fresh in-memory SQLite database with a
// stepping clock, and the outcome snapshot excludes export IDs, so golden
// files are byte-identical across runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/status.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, msg := range result.Errors {
//	    log.Println(msg)
//	}
package harness
