package tasks

import (
	"reflect"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Task
		ok   bool
	}{
		{name: "url only", line: "https://x/video", want: Task{URL: "https://x/video"}, ok: true},
		{name: "size and code", line: "https://x/video 2M badtoken", want: Task{URL: "https://x/video", Size: "2M", TwoFactor: "badtoken"}, ok: true},
		{name: "unresolvable second field dropped", line: "http://x/v otp 123456", want: Task{URL: "http://x/v", TwoFactor: "123456"}, ok: true},
		{name: "extra whitespace", line: "  https://x/v \t 600K  ", want: Task{URL: "https://x/v", Size: "600K"}, ok: true},
		{name: "not a url", line: "not-a-url 2M", ok: false},
		{name: "ftp scheme", line: "ftp://x/v", ok: false},
		{name: "empty", line: "   ", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("ParseLine(%q) ok=%v, want %v", tt.line, ok, tt.ok)
			}
			if got != tt.want {
				t.Fatalf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []Task
	}{
		{
			name: "greedy size then code",
			args: []string{"https://a", "5M", "123456", "https://b"},
			want: []Task{{URL: "https://a", Size: "5M", TwoFactor: "123456"}, {URL: "https://b"}},
		},
		{
			name: "code without size",
			args: []string{"https://a", "otp", "https://b", "1G"},
			want: []Task{{URL: "https://a", TwoFactor: "otp"}, {URL: "https://b", Size: "1G"}},
		},
		{
			name: "stray tokens ignored",
			args: []string{"hello", "5M", "https://a", "5M", "6M", "otp"},
			want: []Task{{URL: "https://a", Size: "5M"}},
		},
		{
			name: "bare digits are a size",
			args: []string{"https://a", "123456"},
			want: []Task{{URL: "https://a", Size: "123456"}},
		},
		{name: "no urls", args: []string{"quit"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseArgs(tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseArgs(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestWantsReencode(t *testing.T) {
	if (Task{URL: "https://a"}).WantsReencode() {
		t.Fatal("task without size must not re-encode")
	}
	if !(Task{URL: "https://a", Size: "1M"}).WantsReencode() {
		t.Fatal("task with size must re-encode")
	}
}
