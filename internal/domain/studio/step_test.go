package studio

import "testing"

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestParseStep(t *testing.T) {
	cases := []struct {
		name  string
		raw   *string
		total *int
		want  Step
	}{
		{"absent", nil, intPtr(3), Step{Kind: StepBase, Total: 3}},
		{"base", strPtr("base"), nil, Step{Kind: StepBase, Raw: "base"}},
		{"ready", strPtr("ready_for_extension_1"), intPtr(3), Step{Kind: StepPreparingExtension, Current: 1, Total: 3, Raw: "ready_for_extension_1"}},
		{"extending", strPtr("extending_3"), intPtr(3), Step{Kind: StepExtending, Current: 3, Total: 3, Raw: "extending_3"}},
		{"completed", strPtr("completed"), intPtr(2), Step{Kind: StepCompleted, Total: 2, Raw: "completed"}},
		{"unknown", strPtr("unknown_step_xyz"), nil, Step{Kind: StepUnknown, Raw: "unknown_step_xyz"}},
		{"bad ordinal", strPtr("extending_x"), intPtr(3), Step{Kind: StepUnknown, Total: 3, Raw: "extending_x"}},
		{"zero ordinal", strPtr("ready_for_extension_0"), intPtr(3), Step{Kind: StepUnknown, Total: 3, Raw: "ready_for_extension_0"}},
		{"negative total", strPtr("extending_1"), intPtr(-1), Step{Kind: StepExtending, Current: 1, Raw: "extending_1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseStep(tc.raw, tc.total); got != tc.want {
				t.Fatalf("ParseStep: got %+v want %+v", got, tc.want)
			}
		})
	}
}
