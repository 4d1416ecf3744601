// Package content holds the scripted educational material: learning
// modules, quizzes, trivia, quotes and tips. Random pickers take an
// injected source so callers stay testable.
package content

import (
	"fmt"
	"math/rand"
	"strings"
)

// Module is one learning unit in the catalogue.
type Module struct {
	ID          string
	Title       string
	Description string
}

// Modules is the fixed catalogue, in presentation order.
var Modules = []Module{
	{ID: "crypto_basics", Title: "Cryptocurrency Fundamentals", Description: "What blockchains are and how coins work"},
	{ID: "stocks_basics", Title: "Stock Trading Basics", Description: "Markets, orders and what moves prices"},
	{ID: "risk_management", Title: "Risk Management", Description: "Position sizing, stop losses and surviving drawdowns"},
	{ID: "technical_analysis", Title: "Technical Analysis", Description: "Reading charts, trends and indicators"},
}

const CryptoBasics = `🪙 Cryptocurrency Fundamentals

A cryptocurrency is digital money secured by cryptography and recorded on a blockchain, a shared ledger nobody can quietly rewrite.

Key ideas:
• Decentralization - no single bank or company controls the network
• Wallets - your keys, your coins; lose the keys, lose the funds
• Bitcoin - the first and largest, capped at 21 million coins
• Ethereum - adds smart contracts, programs that run on the chain
• Volatility - prices move fast in both directions, size positions accordingly

Start small, learn the mechanics on tiny amounts, and never invest money you cannot afford to lose.`

const StocksBasics = `📈 Stock Trading Basics

A share is a slice of ownership in a company. The market is where buyers and sellers agree on what that slice is worth right now.

Key ideas:
• Exchanges - NSE, NYSE, NASDAQ match buyers with sellers
• Order types - market orders fill now, limit orders fill at your price
• Fundamentals - earnings, revenue and debt drive long-term value
• Dividends - some companies pay you just for holding
• Diversification - spreading money across sectors softens the blows

Time in the market beats timing the market. Build the habit before you build the position.`

// QuizQuestion is one multiple-choice question; Answer indexes Options.
type QuizQuestion struct {
	Question string
	Options  []string
	Answer   int
}

var quizzes = []QuizQuestion{
	{
		Question: "What year was Bitcoin created?",
		Options:  []string{"2008", "2009", "2010", "2011"},
		Answer:   1,
	},
	{
		Question: "What is the maximum supply of Bitcoin?",
		Options:  []string{"10M", "21M", "100M", "Unlimited"},
		Answer:   1,
	},
	{
		Question: "Who is the founder of Ethereum?",
		Options:  []string{"Vitalik Buterin", "Satoshi Nakamoto", "Charlie Lee", "Brian Armstrong"},
		Answer:   0,
	},
	{
		Question: "What does DeFi stand for?",
		Options:  []string{"Digital Finance", "Decentralized Finance", "Digital Fund", "None"},
		Answer:   1,
	},
	{
		Question: "What is a blockchain?",
		Options:  []string{"A type of database", "A chain of encrypted blocks", "A cryptocurrency", "All of the above"},
		Answer:   1,
	},
	{
		Question: "What does a limit order do?",
		Options:  []string{"Fills immediately at any price", "Fills only at your price or better", "Cancels all trades", "Shorts the stock"},
		Answer:   1,
	},
}

var quotes = []string{
	"The best time to buy is when there's blood in the streets. - Warren Buffett",
	"Success is not about money. It's about discipline. - Noah Kagan",
	"The goal of a successful trader is to make the best trades. Not the most trades.",
	"Money is not the goal. Money is a tool. - Tony Robbins",
	"The only thing that matters in the market is price action. - Jesse Livermore",
	"Trading is 90% psychology and 10% mechanics.",
	"Compound interest is the 8th wonder of the world.",
	"Time in the market beats timing the market.",
	"Risk management is everything in trading.",
	"Learn from losses, celebrate wins, but never get emotional.",
}

var tips = []string{
	"💡 Always set a stop loss before entering a trade",
	"💡 Never risk more than 2% of your capital on a single trade",
	"💡 Diversification reduces risk - don't put all eggs in one basket",
	"💡 Keep a trading journal to track your progress",
	"💡 Technical analysis + Fundamentals = Better decisions",
	"💡 Patience is a virtue in trading - wait for the right setup",
	"💡 FOMO (Fear of Missing Out) is the biggest enemy of traders",
	"💡 Always have an exit strategy before entering",
	"💡 Practice with paper trading before using real money",
	"💡 The trend is your friend - trade with the trend",
}

var gifs = []string{
	"📈 GIF: Bull market celebration!",
	"🎉 GIF: Trading victory!",
	"🚀 GIF: Moon mission!",
	"💰 GIF: Money falling!",
	"🔥 GIF: On fire!",
	"😂 GIF: Laughing at losses!",
	"💎 GIF: Diamond hands!",
	"🤦 GIF: Face palm moment!",
}

// hindiPhrases is the phrasebook for the /translate command. Lookups are
// exact-match on the lowercased input.
var hindiPhrases = map[string]string{
	"hello":  "नमस्ते",
	"thanks": "धन्यवाद",
	"please": "कृपया",
	"ok":     "ठीक है",
	"yes":    "हाँ",
	"no":     "नहीं",
}

var newsSnippets = []string{
	"🔴 Bitcoin volatility remains high amid market uncertainty",
	"🟢 Ethereum upgrade improves network efficiency by 30%",
	"📊 DeFi TVL reaches new milestone of $100B",
	"🚀 Altseason indicators showing bullish signals",
	"⚠️ Regulatory news: New crypto bill under discussion",
	"💎 NFT market shows signs of recovery",
	"🔐 Security tip: Always use hardware wallets for large holdings",
}

func RandomQuiz(r *rand.Rand) QuizQuestion {
	return quizzes[r.Intn(len(quizzes))]
}

func RandomQuote(r *rand.Rand) string {
	return quotes[r.Intn(len(quotes))]
}

func RandomTip(r *rand.Rand) string {
	return tips[r.Intn(len(tips))]
}

func RandomGif(r *rand.Rand) string {
	return gifs[r.Intn(len(gifs))]
}

// Translate renders a phrasebook translation. Only Hindi is available;
// unknown phrases are reported rather than guessed.
func Translate(text, toLang string) string {
	if !strings.EqualFold(toLang, "hindi") {
		return "Only Hindi translation available for now"
	}
	translated, ok := hindiPhrases[strings.ToLower(text)]
	if !ok {
		translated = fmt.Sprintf("'%s' (not in database)", text)
	}
	return "🌐 Hindi: " + translated
}

// NewsDigest picks n distinct snippets; n is clamped to the pool size.
func NewsDigest(r *rand.Rand, n int) []string {
	if n > len(newsSnippets) {
		n = len(newsSnippets)
	}
	idx := r.Perm(len(newsSnippets))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = newsSnippets[j]
	}
	return out
}

// FindModule returns the module with the given id, if present.
func FindModule(id string) (Module, bool) {
	for _, m := range Modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}
