package model

// 考勤状态取值：只允许 present / absent，
// 台账中出现其他值视为数据完整性故障，聚合时显式报错。
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// DateLayout 考勤日期格式（日历日粒度，无时刻）
const DateLayout = "2006-01-02"

// AttendanceRecord 考勤台账记录 — 对应 attendance
// 只通过一次性的批量点名写入，正常运行下不更新不删除。
type AttendanceRecord struct {
	ID        uint   `gorm:"primaryKey"                 json:"id"`
	StudentID uint   `gorm:"not null;index"             json:"student_id"`
	Date      string `gorm:"type:varchar(10);not null;index" json:"date"`
	Status    string `gorm:"type:varchar(10);not null"  json:"status"`

	// 关联
	Student *User `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance" }

// MarkDay 点名批次标记 — 对应 mark_days
// date 为主键：同一天的第二次批次插入会触发唯一冲突，
// 与记录写入同事务，从而把"检查-再写入"收敛为单个原子操作。
// 守卫作用域是整个数据集而非单个学生，一天只有一次点名事件。
type MarkDay struct {
	Date string `gorm:"type:varchar(10);primaryKey" json:"date"`
}

// TableName 指定表名
func (MarkDay) TableName() string { return "mark_days" }
