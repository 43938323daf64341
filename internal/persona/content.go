package persona

import (
	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/scoring"
)

var personas = map[Tier]Persona{
	TierNovice: {
		Tier:        TierNovice,
		Title:       "Experimentation Novice",
		Description: "You are at the beginning of your experimentation journey. Focus on building foundational processes and gathering basic data.",
		Recommendations: []Recommendation{
			{questions.Process, "Write Down a Simple Process", "Agree on a one-page checklist covering hypothesis, metric, QA and launch so every test follows the same steps."},
			{questions.Strategy, "Tie Tests to One Goal", "Pick a single business KPI for the quarter and only run experiments that can move it."},
			{questions.Insight, "Trust Your Numbers", "Validate tracking before launch and wait for a pre-computed sample size instead of stopping on early wins."},
			{questions.Culture, "Find a Sponsor", "Recruit one leader who will hear results, good or bad, every month and help remove blockers."},
		},
	},
	TierDeveloping: {
		Tier:        TierDeveloping,
		Title:       "Developing Experimenter",
		Description: "You have started implementing experimentation practices. Work on strengthening your methodology and expanding test coverage.",
		Recommendations: []Recommendation{
			{questions.Process, "Standardize Documentation", "Adopt a shared test template and keep every brief, design and result in one searchable place."},
			{questions.Strategy, "Prioritize With a Score", "Rank ideas by expected impact, confidence and effort so the backlog reflects value, not volume."},
			{questions.Insight, "Go Beyond the Winner", "Report confidence intervals and key segments alongside the top-line result."},
			{questions.Culture, "Share Learnings Widely", "Run a short monthly readout where teams present what they tested and what they learned."},
		},
	},
	TierEstablished: {
		Tier:        TierEstablished,
		Title:       "Established Experimenter",
		Description: "You have a solid experimentation foundation. Focus on scaling your program and enhancing analysis capabilities.",
		Recommendations: []Recommendation{
			{questions.Process, "Plan for Concurrency", "Map which experiments share traffic and surfaces so parallel tests do not contaminate each other."},
			{questions.Strategy, "Build a Roadmap", "Group experiments into themed programs that ladder up to annual business objectives."},
			{questions.Insight, "Measure Long-Term Impact", "Add holdouts or post-launch monitoring to confirm that winners keep paying off."},
			{questions.Culture, "Train New Experimenters", "Offer regular training so more teams can design and run trustworthy tests themselves."},
		},
	},
	TierExpert: {
		Tier:        TierExpert,
		Title:       "Expert Experimenter",
		Description: "You have a sophisticated experimentation program. Continue innovating and leading industry best practices.",
		Recommendations: []Recommendation{
			{questions.Process, "Automate Quality Checks", "Automate sample ratio mismatch detection and pre-launch QA across every environment."},
			{questions.Strategy, "Quantify Program ROI", "Track the cumulative value and cost of the program to justify further investment."},
			{questions.Insight, "Adopt Advanced Methods", "Use variance reduction, sequential testing or Bayesian analysis where they fit the decision."},
			{questions.Culture, "Recognize Great Tests", "Celebrate well-run experiments and the lessons from losers, not only the wins."},
		},
	},
	TierLeader: {
		Tier:        TierLeader,
		Title:       "Experimentation Leader",
		Description: "You are at the forefront of experimentation excellence. Focus on pioneering new methodologies and sharing knowledge.",
		Recommendations: []Recommendation{
			{questions.Process, "Platformize Experimentation", "Offer self-serve tooling with guardrails so any team can launch a trustworthy test in hours."},
			{questions.Strategy, "Experiment on Strategy", "Apply testing to pricing, packaging and operations, not only product and marketing surfaces."},
			{questions.Insight, "Build a Knowledge Base", "Maintain a meta-analysis of past experiments to inform priors and spot recurring patterns."},
			{questions.Culture, "Share Externally", "Publish case studies and mentor other organizations to attract talent and raise the bar."},
		},
	},
}

var categoryInsights = map[questions.Category]map[scoring.Level]string{
	questions.Process: {
		scoring.LevelLow:    "Your experimentation process is like a seed waiting to sprout. Time to water it with some structure!",
		scoring.LevelMedium: "Your process is growing nicely, like a well-tended garden. Keep nurturing it!",
		scoring.LevelHigh:   "Your process is a well-oiled machine, humming along like a master gardener's greenhouse!",
	},
	questions.Strategy: {
		scoring.LevelLow:    "Your testing strategy is like a curious explorer without a map. Let's get you some direction!",
		scoring.LevelMedium: "You're navigating the testing waters like a skilled sailor. Keep charting your course!",
		scoring.LevelHigh:   "You're playing testing chess while others play checkers. Strategic genius!",
	},
	questions.Insight: {
		scoring.LevelLow:    "Your data insights are like puzzle pieces waiting to be connected. Time to start solving!",
		scoring.LevelMedium: "You're connecting the dots like a budding detective. Keep investigating!",
		scoring.LevelHigh:   "You're a data whisperer, turning numbers into narratives like magic!",
	},
	questions.Culture: {
		scoring.LevelLow:    "Your testing culture is like a tiny spark ready to ignite. Let's fan those flames!",
		scoring.LevelMedium: "Your organization is catching the testing bug, like a positive epidemic!",
		scoring.LevelHigh:   "You've built a testing paradise where experimentation thrives!",
	},
}
