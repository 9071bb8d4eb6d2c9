package orm

import (
	"context"

	"github.com/goodbye-jack/go-right/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceCounter 关系库上的计数器：不存在则插入0，再 seq = seq + delta，同一事务内读回
type SequenceCounter struct {
	orm *Orm
}

func NewSequenceCounter(o *Orm) *SequenceCounter {
	return &SequenceCounter{orm: o}
}

func (c *SequenceCounter) IncrBy(ctx context.Context, name string, delta int64) (int64, error) {
	var seq model.Sequence
	err := c.orm.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Sequence{Name: name}).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Sequence{}).Where("name = ?", name).
			UpdateColumn("seq", gorm.Expr("seq + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		return tx.Where("name = ?", name).First(&seq).Error
	})
	if err != nil {
		return 0, translate(err, "sequences.incr "+name)
	}
	return seq.Seq, nil
}
