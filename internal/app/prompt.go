package app

import (
	"fmt"
	"strings"

	"github.com/AlexLin625/cyber-tarot/internal/domain"
	"github.com/AlexLin625/cyber-tarot/internal/ports"
)

// The two system prompts are process-wide constants. The summary persona
// picks one of two narrative paradigms and weaves the three cards into an
// overall reading; the detail persona expands a single card against that
// summary. User messages are built by pure functions below so that a request
// is fully reproducible from session data.

const summarySystemPrompt = `# 角色与能力

你是一个专业的塔罗牌解读师。你的任务是根据用户提供的三张牌的Spread, 解读三张牌的含义，并根据这三张牌的含义，给出一个总体的解读。

# 输入

输入分为几个部分，首先，是三张牌的名字和正反位。随后，每张牌代表的示例解读会出现在其后面，以 <|tarot|> 或类似的符号包围起来。

输入的第二部分是用户的问题。以 <|question|> 开头，后面跟着用户的问题。

# 任务

1. 根据用户的问题，选择使用以下两种范式的其中之一进行三张牌的解读，分别是

a. 过去 - 现在 - 未来
b. 问题 - 解决方案 - 结果

2. 将三张牌放入你选择的范式。结合用户的背景，整理出流畅的文字。

# 要求

- 对于每一个阶段的回答，你应该：
 - 首先结合你的思考内容，简要解释这张牌在当前位置的含义。
 - 然后，给出一些可能性的推理。
- 你的输出应当整理成一个完整而流畅的段落，不需要展示你的推理过程。
- 不要向用户明确展示以上的范式。
- 输出相对简短的回答，不需要过多的细节。`

const detailSystemPrompt = `# 角色与能力

你是一个专业的塔罗牌解读师。你擅长结合牌阵的含义，向用户提供详细的解读。

# 输入

首先，是关于卡牌的信息，包括卡牌的名字和正反位。随后，是用户的问题。

紧接着，是关于这张卡牌的详细信息。

# 任务和要求

 - 你需要结合总体情况和卡牌的参考解读，给出关于这张卡牌的详细解读。
 - 你的回复应当以介绍卡牌本身开头，你不需要重复总结的内容。
 - 你的回答需要聚焦于当前卡牌的详细解读。
 - 不要在你的回复中过多提及其他卡牌。
 - 你的输出应当整理成一个完整而流畅的段落，不需要展示你的推理过程。`

func orientationLabel(o domain.Orientation) string {
	if o == domain.Reversed {
		return "逆位"
	}
	return "正位"
}

// spreadListing renders the per-card lines shared by the summary and detail
// user messages: display name, orientation, and the keywords of the drawn
// side, in spread order.
func spreadListing(cards []domain.DrawnCard) string {
	var b strings.Builder
	for i, card := range cards {
		fmt.Fprintf(&b, " - 第 %d 张牌是 %s，它的朝向是 %s。这张牌含义的关键词包括 %s。\n",
			i+1, card.Name, orientationLabel(card.Orientation),
			strings.Join(card.MeaningFor(card.Orientation).Keywords, ","))
	}
	return b.String()
}

func spreadAndQuestion(cards []domain.DrawnCard, question string) string {
	var b strings.Builder
	b.WriteString("## 抽卡结果\n\n")
	b.WriteString(spreadListing(cards))
	b.WriteString("\n## 用户问题\n\n")
	fmt.Fprintf(&b, "<|question|> %s <|question|>\n", question)
	return b.String()
}

// SummaryMessages builds the first relay call of a generation cycle.
func SummaryMessages(cards []domain.DrawnCard, question string) []ports.Message {
	var b strings.Builder
	b.WriteString(spreadAndQuestion(cards, question))
	b.WriteString("\n## 输出要求\n\n请根据用户的问题，选择一种范式进行解读，并给出一个总体的解释。\n")

	return []ports.Message{
		{Role: ports.RoleSystem, Content: summarySystemPrompt},
		{Role: ports.RoleUser, Content: b.String()},
	}
}

// DetailMessages builds the relay call expanding the card in slot index,
// carrying the full reference text for that card's drawn side plus the
// summary produced earlier in the cycle. The reply is instructed to open
// with a fixed "<名字>卡的<正位/逆位>代表..." sentence.
func DetailMessages(cards []domain.DrawnCard, index int, summary, question string) []ports.Message {
	card := cards[index]
	side := orientationLabel(card.Orientation)

	var b strings.Builder
	b.WriteString(spreadAndQuestion(cards, question))
	fmt.Fprintf(&b, "\n## 卡片%s的详细解读\n\n", card.Name)
	fmt.Fprintf(&b, "<|tarot|>\n%s\n<|tarot|>\n", card.MeaningFor(card.Orientation).Full)
	fmt.Fprintf(&b, "\n## 总体解读\n\n%s\n", summary)
	fmt.Fprintf(&b, "\n## 任务\n\n你需要根据%s卡的参考解读，结合用户的问题和上面的情况总结，给出与用户情况相结合的详细解读。你的回答应当以\n```\n%s卡的%s代表...\n```\n的简单介绍开头，不要过多提及其他卡牌。\n",
		card.Name, card.Name, side)

	return []ports.Message{
		{Role: ports.RoleSystem, Content: detailSystemPrompt},
		{Role: ports.RoleUser, Content: b.String()},
	}
}
