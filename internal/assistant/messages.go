package assistant

import "github.com/jonathan/career-assistant/internal/types"

// Fixed assistant texts.
const (
	WelcomeText         = "Welcome to your AI Career Assistant powered by Gemini 2.0 Flash! How can I help you today?"
	CareerResultsText   = "Here are some career paths that might be a good fit for you:"
	SkillRoadmapText    = "Here's a personalized learning roadmap for your career goals:"
	JobListingsText     = "I found these job opportunities that might interest you:"
	AnalysisText        = "I've analyzed your resume. Here's my detailed assessment:"
	UploadFailedText    = "Sorry, I couldn't analyze your resume. Please try a different file format (PDF, DOCX, or TXT)."
	ProcessingIssueText = "I encountered an issue processing your request. Please try again!"
	EditFailedText      = "Failed to process custom edit. Please try again."
)

// UploadedText is the user message recorded for a résumé upload.
func UploadedText(filename string) string {
	return "Uploaded resume: " + filename
}

// WelcomeFeatures returns the feature menu shown at the start of a conversation.
func WelcomeFeatures() []types.FeatureOption {
	return []types.FeatureOption{
		{
			Title:       "Resume Analysis & Creation",
			Description: "Get your resume reviewed or create a new one from scratch",
			Prompt:      "I need help with my resume - either analyzing an existing one or creating a new one",
		},
		{
			Title:       "Career Path Recommendations",
			Description: "Discover careers that match your skills and interests",
			Prompt:      "What career paths would suit my skills and experience?",
		},
		{
			Title:       "Skill Development Roadmap",
			Description: "Create a personalized learning plan for your career goals",
			Prompt:      "Help me build a skill development roadmap for my career",
		},
		{
			Title:       "Job Search Assistance",
			Description: "Find relevant job opportunities and prepare for applications",
			Prompt:      "I need help finding job opportunities in my field",
		},
	}
}
