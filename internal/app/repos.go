package app

import (
	"gorm.io/gorm"

	studentrepo "github.com/yungbote/neurobridge-coach/internal/data/repos/student"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

type Repos struct {
	Profile      studentrepo.ProfileRepo
	TraumaFlag   studentrepo.TraumaFlagRepo
	Interest     studentrepo.InterestRepo
	BarrierEvent studentrepo.BarrierEventRepo
	RewardGrant  studentrepo.RewardGrantRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Profile:      studentrepo.NewProfileRepo(db, log),
		TraumaFlag:   studentrepo.NewTraumaFlagRepo(db, log),
		Interest:     studentrepo.NewInterestRepo(db, log),
		BarrierEvent: studentrepo.NewBarrierEventRepo(db, log),
		RewardGrant:  studentrepo.NewRewardGrantRepo(db, log),
	}
}
