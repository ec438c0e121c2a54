package validation

import (
	"io"

	"mission-control/models"
)

// ParseCreateTask valida o corpo do POST /api/tasks e aplica os padrões
// Planning/Medium. Chaves desconhecidas são ignoradas.
func ParseCreateTask(r io.Reader) Result[models.CreateTaskInput] {
	obj, errs := decodeObject(r)
	if errs != nil {
		return Result[models.CreateTaskInput]{Errors: errs}
	}
	p := &parser{obj: obj}

	in := models.CreateTaskInput{
		Title:    p.requiredString("title"),
		Status:   models.StatusPlanning,
		Priority: models.PriorityMedium,
	}
	if desc := p.nullableString("desc"); desc.Set {
		in.Desc = desc.Value
	}
	if v, ok := p.enumField("status", statusNames()); ok {
		in.Status = models.TaskStatus(v)
	}
	if v, ok := p.enumField("priority", priorityNames()); ok {
		in.Priority = models.TaskPriority(v)
	}
	if a := p.nullableString("assignedTo"); a.Set {
		in.AssignedTo = a.Value
	}
	if len(p.errors) > 0 {
		return Result[models.CreateTaskInput]{Errors: p.errors}
	}
	return Result[models.CreateTaskInput]{Value: in}
}

// ParseUpdateTask valida o corpo do PATCH: os mesmos campos, todos opcionais.
func ParseUpdateTask(r io.Reader) Result[models.UpdateTaskInput] {
	obj, errs := decodeObject(r)
	if errs != nil {
		return Result[models.UpdateTaskInput]{Errors: errs}
	}
	p := &parser{obj: obj}

	var in models.UpdateTaskInput
	if _, ok := obj["title"]; ok {
		title := p.requiredString("title")
		in.Title = &title
	}
	in.Desc = p.nullableString("desc")
	if v, ok := p.enumField("status", statusNames()); ok {
		st := models.TaskStatus(v)
		in.Status = &st
	}
	if v, ok := p.enumField("priority", priorityNames()); ok {
		pr := models.TaskPriority(v)
		in.Priority = &pr
	}
	in.AssignedTo = p.nullableString("assignedTo")
	if len(p.errors) > 0 {
		return Result[models.UpdateTaskInput]{Errors: p.errors}
	}
	return Result[models.UpdateTaskInput]{Value: in}
}

// ParseCreateLog exige level válido e module/message não vazios.
func ParseCreateLog(r io.Reader) Result[models.CreateLogInput] {
	obj, errs := decodeObject(r)
	if errs != nil {
		return Result[models.CreateLogInput]{Errors: errs}
	}
	p := &parser{obj: obj}

	var in models.CreateLogInput
	if _, ok := obj["level"]; !ok {
		p.fail(CodeInvalidType, "level", "Required")
	} else if v, ok := p.enumField("level", levelNames()); ok {
		in.Level = models.LogLevel(v)
	}
	in.Message = p.requiredString("message")
	in.Module = p.requiredString("module")
	if len(p.errors) > 0 {
		return Result[models.CreateLogInput]{Errors: p.errors}
	}
	return Result[models.CreateLogInput]{Value: in}
}

type CreateCommentInput struct {
	Text string
}

func ParseCreateComment(r io.Reader) Result[CreateCommentInput] {
	obj, errs := decodeObject(r)
	if errs != nil {
		return Result[CreateCommentInput]{Errors: errs}
	}
	p := &parser{obj: obj}
	in := CreateCommentInput{Text: p.requiredString("text")}
	if len(p.errors) > 0 {
		return Result[CreateCommentInput]{Errors: p.errors}
	}
	return Result[CreateCommentInput]{Value: in}
}
