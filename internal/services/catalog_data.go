package services

// Fixed questionnaire content. Question and option ids are stable: the
// scoring configuration in mbti.go and riasec.go refers to them, and
// stored answer sets reference them permanently.

// DefaultMBTIQuestions returns the 12 type-inventory items, three per
// dichotomy, each with two options carrying the opposing analytic ids.
func DefaultMBTIQuestions() []*MBTIQuestion {
	type opt struct {
		text     string
		analytic int
	}
	data := []struct {
		text string
		a, b opt
	}{
		// EI (questions 1-3)
		{"At a social gathering, you usually...",
			opt{"Seek out new people and conversations", 1}, opt{"Stay with the few people you already know", 2}},
		{"After a long week, you recharge by...",
			opt{"Going out with friends", 1}, opt{"Spending quiet time alone", 2}},
		{"When working through a problem, you prefer to...",
			opt{"Talk it through with others", 1}, opt{"Think it over by yourself first", 2}},
		// SN (questions 4-6)
		{"When learning something new, you focus on...",
			opt{"Concrete facts and practical details", 3}, opt{"Patterns and future possibilities", 4}},
		{"You trust information that is...",
			opt{"Verified by direct experience", 3}, opt{"Suggested by intuition and imagination", 4}},
		{"When describing an event, you tend to...",
			opt{"Report exactly what happened", 3}, opt{"Explain what it could mean", 4}},
		// TF (questions 7-9)
		{"When making a difficult decision, you rely on...",
			opt{"Objective analysis of the facts", 5}, opt{"How the outcome affects the people involved", 6}},
		{"Honest feedback should above all be...",
			opt{"Accurate, even if it stings", 5}, opt{"Tactful, even if softened", 6}},
		{"In a disagreement, you care most about...",
			opt{"Reaching the logically correct answer", 5}, opt{"Keeping harmony in the group", 6}},
		// JP (questions 10-12)
		{"Your ideal way to work is...",
			opt{"Planned, with clear deadlines", 7}, opt{"Flexible, adapting as things come up", 8}},
		{"Before a trip, you prefer to...",
			opt{"Have an itinerary settled in advance", 7}, opt{"Decide what to do once you arrive", 8}},
		{"Unfinished tasks on your list make you feel...",
			opt{"Restless until they are closed out", 7}, opt{"Fine; options stay open longer that way", 8}},
	}

	questions := make([]*MBTIQuestion, 0, len(data))
	optionID := 0
	for i, q := range data {
		id := i + 1
		questions = append(questions, &MBTIQuestion{
			ID:   id,
			Text: q.text,
			Options: []MBTIOption{
				{ID: optionID + 1, QuestionID: id, Text: q.a.text, AnalyticID: q.a.analytic},
				{ID: optionID + 2, QuestionID: id, Text: q.b.text, AnalyticID: q.b.analytic},
			},
		})
		optionID += 2
	}
	return questions
}

// DefaultRIASECTypes returns the six interest categories in scoring order.
func DefaultRIASECTypes() []*RIASECType {
	return []*RIASECType{
		{ID: 1, Code: "R", Name: "Realistic", Description: "Practical, hands-on work with tools, machines and the outdoors."},
		{ID: 2, Code: "I", Name: "Investigative", Description: "Analytical work: observing, researching and solving abstract problems."},
		{ID: 3, Code: "A", Name: "Artistic", Description: "Creative expression through design, writing, music or performance."},
		{ID: 4, Code: "S", Name: "Social", Description: "Helping, teaching, counseling and caring for others."},
		{ID: 5, Code: "E", Name: "Enterprising", Description: "Leading, persuading and managing people or projects."},
		{ID: 6, Code: "C", Name: "Conventional", Description: "Organizing data, following procedures and keeping accurate records."},
	}
}

// DefaultRIASECQuestions returns 30 items, five per category, grouped by
// type id so ids 1-5 score R, 6-10 score I, and so on.
func DefaultRIASECQuestions() []*RIASECQuestion {
	stems := map[int][]string{
		1: { // Realistic
			"Repair machines or mechanical equipment",
			"Work outdoors on a construction site",
			"Assemble or build things with my hands",
			"Operate heavy tools or vehicles",
			"Take care of plants or animals",
		},
		2: { // Investigative
			"Run experiments in a laboratory",
			"Analyze data to answer a research question",
			"Read scientific articles or journals",
			"Work out how a complex system functions",
			"Solve mathematical or logic puzzles",
		},
		3: { // Artistic
			"Write stories, poetry or music",
			"Design posters, interiors or clothing",
			"Act, sing or play in front of an audience",
			"Sketch, paint or sculpt",
			"Develop original ideas without fixed rules",
		},
		4: { // Social
			"Teach or train other people",
			"Listen to people talk about their problems",
			"Volunteer for community or charity work",
			"Care for patients or the elderly",
			"Mediate disagreements between people",
		},
		5: { // Enterprising
			"Lead a team toward an ambitious goal",
			"Sell a product or pitch an idea",
			"Start and run my own business",
			"Negotiate contracts or deals",
			"Speak in public to persuade an audience",
		},
		6: { // Conventional
			"Keep detailed financial records",
			"Organize files, schedules and archives",
			"Check documents for errors and consistency",
			"Follow a well-defined procedure precisely",
			"Work with spreadsheets and databases",
		},
	}

	questions := make([]*RIASECQuestion, 0, RIASECQuestionCount)
	id := 0
	for typeID := 1; typeID <= 6; typeID++ {
		for _, stem := range stems[typeID] {
			id++
			questions = append(questions, &RIASECQuestion{ID: id, TypeID: typeID, Text: stem})
		}
	}
	return questions
}

// DefaultRIASECOptions returns the shared five-point Likert options. Only
// the top two carry score weight, which caps a category at 10 points
// across its five items.
func DefaultRIASECOptions() []*RIASECOption {
	return []*RIASECOption{
		{ID: 1, Text: "Strongly dislike", ScoreValue: 0},
		{ID: 2, Text: "Dislike", ScoreValue: 0},
		{ID: 3, Text: "Neutral", ScoreValue: 0},
		{ID: 4, Text: "Like", ScoreValue: 1},
		{ID: 5, Text: "Strongly like", ScoreValue: 2},
	}
}
