package handlers

import "task-tracker-api/internal/models"

// projectTask is one element of GET /tasks. Every joined relation is always emitted:
// an unassigned task has "assignee": null and a task without comments has "comments": [].
type projectTask struct {
	models.Task
	Author      *models.User        `json:"author"`
	Assignee    *models.User        `json:"assignee"`
	Comments    []models.Comment    `json:"comments"`
	Attachments []models.Attachment `json:"attachments"`
}

// userTask is one element of GET /users/:userId/tasks. Only author and assignee are
// joined there, so comments and attachments stay out of the payload.
type userTask struct {
	models.Task
	Author   *models.User `json:"author"`
	Assignee *models.User `json:"assignee"`
}

func toProjectTasks(tasks []models.Task) []projectTask {
	out := make([]projectTask, 0, len(tasks))
	for _, t := range tasks {
		pt := projectTask{
			Task:        t,
			Author:      t.Author,
			Assignee:    t.Assignee,
			Comments:    t.Comments,
			Attachments: t.Attachments,
		}
		if pt.Comments == nil {
			pt.Comments = []models.Comment{}
		}
		if pt.Attachments == nil {
			pt.Attachments = []models.Attachment{}
		}
		out = append(out, pt)
	}
	return out
}

func toUserTasks(tasks []models.Task) []userTask {
	out := make([]userTask, 0, len(tasks))
	for _, t := range tasks {
		// not preloaded, never serialized
		t.Comments, t.Attachments = nil, nil
		out = append(out, userTask{Task: t, Author: t.Author, Assignee: t.Assignee})
	}
	return out
}
