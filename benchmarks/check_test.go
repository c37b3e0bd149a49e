package benchmarks

import (
	"testing"

	"github.com/randalmurphal/offensive/pkg/offensive"
)

// BenchmarkCheck_Pass runs a passing two-operand chain.
func BenchmarkCheck_Pass(b *testing.B) {
	c := offensive.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Check(i+1, "n").Is().ANumber().And().Positive().Err()
	}
}

// BenchmarkCheck_Fail runs a failing chain, message included.
func BenchmarkCheck_Fail(b *testing.B) {
	c := offensive.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Check(-i-1, "n").Is().ANumber().And().Positive().Err()
	}
}

// BenchmarkCheck_Or_10 folds ten alternatives, none of which holds.
func BenchmarkCheck_Or_10(b *testing.B) {
	c := offensive.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		chain := c.Check(100, "x").Is().Equal(0)
		for j := 1; j < 10; j++ {
			chain = chain.Or().Equal(j)
		}
		_ = chain.Err()
	}
}

// BenchmarkCheck_Property runs the property assertion with its precondition.
func BenchmarkCheck_Property(b *testing.B) {
	c := offensive.New()
	user := map[string]any{"name": "alice", "age": 30}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Check(user, "user").Has().Property("name", "bob").Err()
	}
}

// BenchmarkCheck_ElementThat narrows to an element of a slice.
func BenchmarkCheck_ElementThat(b *testing.B) {
	c := offensive.New()
	ids := []int{3, -1, 7}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Check(ids, "ids").Has().ElementThat(1).Which().Is().Positive().Err()
	}
}

// BenchmarkCheck_Result settles through Result instead of Err.
func BenchmarkCheck_Result(b *testing.B) {
	c := offensive.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := c.Check("a", "x").Isnt().AString().Result()
		_ = r.Message()
	}
}

// BenchmarkCheck_Parallel runs chains from many goroutines on one Checker.
func BenchmarkCheck_Parallel(b *testing.B) {
	c := offensive.New()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_ = c.Check(i, "i").Is().ANumber().And().Lt(1000).Err()
			i++
		}
	})
}

// BenchmarkNew measures Checker creation, catalogue clone included.
func BenchmarkNew(b *testing.B) {
	for i := 0; i < b.N; i++ {
		offensive.New()
	}
}
