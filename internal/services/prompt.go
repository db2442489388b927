package services

import (
	"fmt"
	"strings"

	types "github.com/yungbote/learnpath-backend/internal/domain"
)

func quizPrompt(topic *types.Topic, course *types.Course, numQuestions int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d multiple-choice questions about the topic below.\n\n", numQuestions)
	b.WriteString("Rules:\n")
	b.WriteString("- Each question has a \"question\" string, an \"options\" array of exactly 4 distinct strings, and a \"correctAnswer\" string.\n")
	b.WriteString("- \"correctAnswer\" must be exactly equal to one of the options.\n")
	b.WriteString("- Return ONLY the JSON object. No markdown, no prose, no explanation.\n\n")
	fmt.Fprintf(&b, "Topic Title: %s\n", topic.Title)
	fmt.Fprintf(&b, "Topic Description: %s\n", topic.Description)
	fmt.Fprintf(&b, "Course: %s\n\n", course.Title)
	b.WriteString("JSON format:\n")
	b.WriteString(`{"questions":[{"question":"","options":["","","",""],"correctAnswer":""}]}`)
	b.WriteString("\n")
	return b.String()
}

func explainPrompt(topic *types.Topic, course *types.Course) string {
	var b strings.Builder
	b.WriteString("Explain the following topic in very simple terms, with examples and little jargon, ")
	b.WriteString("for a learner who is struggling with it.\n\n")
	fmt.Fprintf(&b, "Topic: %s\n", topic.Title)
	fmt.Fprintf(&b, "Description: %s\n", topic.Description)
	fmt.Fprintf(&b, "Course: %s\n\n", course.Title)
	b.WriteString("Provide:\n")
	b.WriteString("1. A simple explanation\n")
	b.WriteString("2. Real-world examples\n")
	b.WriteString("3. Common mistakes to avoid\n")
	b.WriteString("4. Key points to remember\n\n")
	b.WriteString("Format the response in a clear, friendly way.\n")
	return b.String()
}

func recommendationPrompt(strong, weak, remaining []string) string {
	var b strings.Builder
	b.WriteString("You are a learning advisor. Based on the student progress below, suggest what they should study next.\n\n")
	fmt.Fprintf(&b, "Completed Topics (Strong): %s\n", joinOrNone(strong))
	fmt.Fprintf(&b, "Weak Topics (Need Revision): %s\n", joinOrNone(weak))
	fmt.Fprintf(&b, "Remaining Topics: %s\n\n", joinOrNone(remaining))
	b.WriteString("Provide:\n")
	b.WriteString("1. What to study next, weak topics first\n")
	b.WriteString("2. Why this order is recommended\n")
	b.WriteString("3. Tips for improvement\n\n")
	b.WriteString("Keep the response concise and actionable.\n")
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
