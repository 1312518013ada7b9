package staff

import "github.com/m04kA/SMC-SurgeryScheduler/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
