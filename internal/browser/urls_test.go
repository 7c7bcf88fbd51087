package browser

import "testing"

func assertURLs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestChannelURLCandidates_GuessWithoutGuild(t *testing.T) {
	got := ChannelURLCandidates("9", "", true)
	assertURLs(t, got, []string{
		"https://discord.com/channels/0/9",
		"https://discord.com/channels/@me/9",
	})
}

func TestChannelURLCandidates_GuildFirst(t *testing.T) {
	got := ChannelURLCandidates("9", "42", true)
	assertURLs(t, got, []string{
		"https://discord.com/channels/42/9",
		"https://discord.com/channels/@me/9",
	})
}

func TestChannelURLCandidates_GuildOnly(t *testing.T) {
	got := ChannelURLCandidates("9", "42", false)
	assertURLs(t, got, []string{"https://discord.com/channels/42/9"})
}

func TestChannelURLCandidates_Deduplicates(t *testing.T) {
	// A guild id of "@me" collides with the guessed DM shape.
	got := ChannelURLCandidates("9", "@me", true)
	assertURLs(t, got, []string{"https://discord.com/channels/@me/9"})
}

func TestChannelURLCandidates_NothingToTry(t *testing.T) {
	if got := ChannelURLCandidates("9", "", false); len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}
