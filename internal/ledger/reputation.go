package ledger

import (
	"github.com/Lynndabel/Bloconnect/internal/models"
)

// applyReputation пересчитывает рейтинг фрилансера после выплаты.
// Весом служит счётчик завершённых заказов в том виде, в каком он
// хранится на момент вычисления: при обычной приёмке он уже
// инкрементирован за текущий заказ, то есть новый заказ учитывается и в
// весе, и в делителе. Асимметрия воспроизводится намеренно.
func (l *Ledger) applyReputation(freelancer *models.User, rating uint64) {
	weight := freelancer.TotalJobsCompleted
	newRep := (freelancer.Reputation*weight + rating*100) / (weight + 1)
	if newRep > models.MaxReputation {
		newRep = models.MaxReputation
	}
	freelancer.Reputation = newRep
}
