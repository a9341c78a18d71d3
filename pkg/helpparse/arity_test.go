package helpparse_test

import (
	"testing"

	. "src.optscan.sh/pkg/helpparse"
	"src.optscan.sh/pkg/testutil"
	"src.optscan.sh/pkg/tt"
)

func TestClassify(t *testing.T) {
	tt.Test(t, tt.Fn("Classify", Classify), tt.Table{
		tt.Args(true, NoOptionalArgs).Rets(One),
		tt.Args(true, RepeatedOptionalArgs).Rets(OneOrMore),
		tt.Args(false, NoOptionalArgs).Rets(Zero),
		tt.Args(false, SingleOptionalArg).Rets(ZeroOrOne),
		tt.Args(false, RepeatedOptionalArgs).Rets(Any),
	})
}

func TestClassify_RequiredThenSingleOptional(t *testing.T) {
	r := testutil.Recover(func() { Classify(true, SingleOptionalArg) })
	if _, ok := r.(*InvariantViolation); !ok {
		t.Errorf("Classify(true, SingleOptionalArg) panicked with %v, want *InvariantViolation", r)
	}
}

func TestArgsNumType(t *testing.T) {
	tt.Test(t, tt.Fn("ArgsNumType.String", ArgsNumType.String), tt.Table{
		tt.Args(Zero).Rets("Zero"),
		tt.Args(OneOrMore).Rets("OneOrMore"),
		tt.Args(ArgsNumType(10)).Rets("ArgsNumType(10)"),
	})
	tt.Test(t, tt.Fn("ArgsNumType.TakesArg", ArgsNumType.TakesArg), tt.Table{
		tt.Args(Zero).Rets(false),
		tt.Args(ZeroOrOne).Rets(true),
		tt.Args(Any).Rets(true),
	})
	tt.Test(t, tt.Fn("ArgsNumType.ArgRequired", ArgsNumType.ArgRequired), tt.Table{
		tt.Args(One).Rets(true),
		tt.Args(OneOrMore).Rets(true),
		tt.Args(ZeroOrOne).Rets(false),
		tt.Args(Any).Rets(false),
	})
}
