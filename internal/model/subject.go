package model

// Subject 课程信息（表单字段与远端一致）
type Subject struct {
	ID             string `json:"_id,omitempty"`
	SubjectName    string `json:"subjectName"`
	SubjectCode    string `json:"subjectCode"`
	SubjectType    string `json:"subjectType"` // "Lecture" | "Lab"
	Faculty        string `json:"faculty"`     // 教师 ID
	PeriodsPerWeek int    `json:"periodsPerWeek"`
	LabName        string `json:"labName,omitempty"`
	Semester       string `json:"semester"`
	Department     string `json:"department"`
}

// FacultyRef 课程详情中内嵌的教师信息
type FacultyRef struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
}

// SubjectDetails 课程详情接口的最小读取字段
type SubjectDetails struct {
	SubjectCode string      `json:"subjectCode"`
	Code        string      `json:"code,omitempty"` // 旧版接口字段
	SubjectName string      `json:"subjectName,omitempty"`
	Faculty     *FacultyRef `json:"faculty,omitempty"`
}
