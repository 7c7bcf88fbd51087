package browser

const channelURLBase = "https://discord.com/channels"

// ChannelURLCandidates builds the ordered, de-duplicated list of URLs to try
// for a channel. The precise guild form comes first when the guild id is
// known. With guessing enabled, a placeholder-guild form (the client often
// resolves it) and the DM form are appended.
func ChannelURLCandidates(channelID, guildID string, guess bool) []string {
	var urls []string
	if guildID != "" {
		urls = append(urls, channelURLBase+"/"+guildID+"/"+channelID)
	}
	if guess {
		if guildID == "" {
			urls = append(urls, channelURLBase+"/0/"+channelID)
		}
		urls = append(urls, channelURLBase+"/@me/"+channelID)
	}

	seen := make(map[string]bool, len(urls))
	dedup := urls[:0]
	for _, u := range urls {
		if !seen[u] {
			dedup = append(dedup, u)
			seen[u] = true
		}
	}
	return dedup
}
