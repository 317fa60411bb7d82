// Package terraform rewrites Terraform configuration text without a full
// grammar parser.
//
// Every operation is a targeted edit: a module, provider entry or data source
// is located with lightweight pattern matching plus delimiter-depth counting,
// the smallest possible span is rewritten, and every byte outside that span is
// preserved exactly. The package never writes files itself; scanning
// operations read *.tf files under a root, editing operations are pure
// text-in/text-out and the caller owns persistence.
//
// The package targets the module conventions used by the nsbno deployment
// modules (sources versioned with a ?ref= suffix). Arbitrary HCL expressions,
// functions and conditionals are out of scope.
package terraform
