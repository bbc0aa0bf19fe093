package state

// Allocator выдаёт монотонно растущие идентификаторы, по счётчику на
// каждый тип сущности. Счётчики стартуют с нуля и инкрементируются до
// первого использования, поэтому валидные id лежат в [1, current], а 0
// означает «не существует». Идентификаторы никогда не переиспользуются.
type Allocator struct {
	Jobs       uint64 `json:"jobs"`
	Proposals  uint64 `json:"proposals"`
	Milestones uint64 `json:"milestones"`
	Disputes   uint64 `json:"disputes"`
}

// NextJob выдаёт следующий id заказа.
func (a *Allocator) NextJob() uint64 {
	a.Jobs++
	return a.Jobs
}

// NextProposal выдаёт следующий id предложения.
func (a *Allocator) NextProposal() uint64 {
	a.Proposals++
	return a.Proposals
}

// NextMilestone выдаёт следующий id этапа.
func (a *Allocator) NextMilestone() uint64 {
	a.Milestones++
	return a.Milestones
}

// NextDispute выдаёт следующий id спора.
func (a *Allocator) NextDispute() uint64 {
	a.Disputes++
	return a.Disputes
}
