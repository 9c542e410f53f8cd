package ai

const StatsPrompt = "Search for Shohei Ohtani's 2025 SEASON stats. " +
	"Focus on: Batting Average (AVG), Home Runs (HR), RBIs, OPS, Stolen Bases (SB). " +
	"Also check Pitching stats if applicable for this season: ERA, Strikeouts (SO), Wins/Losses. " +
	"Provide a concise summary in bullet points suitable for a dashboard card. Do not write an intro. " +
	"IMPORTANT: Reply in Traditional Chinese (Taiwan)."

const NewsPrompt = "Find the top 15 most recent news headlines about Shohei Ohtani from reliable sports sources within the last 48 hours. " +
	"Return a JSON array of objects. Do not include any markdown formatting or code blocks, just the raw JSON string. " +
	"Each object must have: 'title' (string, translated to Traditional Chinese if needed), 'url' (string), 'date' (string, YYYY-MM-DD), 'time' (string, HH:MM), 'lang' (string, 'en' or 'cn'). " +
	"Ensure 8 English and 7 Chinese items if possible. " +
	"IMPORTANT: Output ONLY the JSON string."

const HighlightsPrompt = "Search for recent YouTube video highlights of Shohei Ohtani's best plays from the current or last season. " +
	"Prioritize official MLB or major sports channel YouTube links (English sources). " +
	"Return a JSON array of objects. Do not include any markdown formatting or code blocks, just the raw JSON string. " +
	"Each object must have: 'title' (string, accurate title from the video source), 'url' (string, YouTube link), 'date' (string, YYYY-MM-DD), 'time' (string, HH:MM). " +
	"IMPORTANT: Output ONLY the JSON string."
