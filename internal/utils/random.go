package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/ward-roster/roster/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

var roles = []string{"Oberarzt", "Facharzt", "Assistenzarzt"}

func GenerateRandomChineseName(rng *rand.Rand) string {
	surname := commonSurnames[rng.Intn(len(commonSurnames))]
	nameLength := rng.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rng.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateStaffIDFromChineseName 用姓名的拼音前缀加上随机数字作为员工 ID
func GenerateStaffIDFromChineseName(rng *rand.Rand, chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	id := ""

	for _, p := range pinyinArray {
		length := rng.Intn(len(p)) + 1
		id += p[:length]
	}

	digitsLength := rng.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		id += string(digits[rng.Intn(len(digits))])
	}

	return id
}

// 使用 Fisher-Yates 洗牌算法来生成一个随机的非空子集
func GenerateRandomSubset(rng *rand.Rand, arr []string) []string {
	arrCopy := append([]string{}, arr...) // 复制数组，避免修改原数组

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rng.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	l := rng.Intn(len(arrCopy)) + 1
	return arrCopy[:l]
}

// GenerateRandomStaff 生成 n 个 ID 互不相同的员工，能力从 shiftKeys 中随机选取
func GenerateRandomStaff(rng *rand.Rand, n int, shiftKeys []string, emailDomain string) []domain.Staff {
	staff := make([]domain.Staff, 0, n)
	seen := make(map[string]bool, n)

	for len(staff) < n {
		name := GenerateRandomChineseName(rng)
		id := GenerateStaffIDFromChineseName(rng, name)
		if seen[id] {
			continue
		}
		seen[id] = true

		s := domain.Staff{
			ID:             id,
			Name:           name,
			Role:           roles[rng.Intn(len(roles))],
			RequiredShifts: rng.Intn(10) + 10,
		}
		if emailDomain != "" {
			s.Email = strings.ToLower(id) + "@" + emailDomain
		}
		if len(shiftKeys) > 0 {
			s.Capabilities = GenerateRandomSubset(rng, shiftKeys)
		}
		staff = append(staff, s)
	}

	return staff
}

// GenerateRandomWishes 为随机员工在 year 年内的随机日期生成意愿，只选择该员工能上的班次
func GenerateRandomWishes(rng *rand.Rand, n int, staff []domain.Staff, shiftKeys []string, year int) []domain.Wish {
	if len(staff) == 0 || len(shiftKeys) == 0 {
		return nil
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := start.AddDate(1, 0, 0).Sub(start).Hours() / 24

	wishes := make([]domain.Wish, 0, n)
	for i := 0; i < n; i++ {
		s := staff[rng.Intn(len(staff))]
		candidates := s.Capabilities
		if len(candidates) == 0 {
			candidates = shiftKeys
		}
		date := start.AddDate(0, 0, rng.Intn(int(days)))
		wishes = append(wishes, domain.Wish{
			StaffID: s.ID,
			Date:    date.Format(domain.DateLayout),
			Shift:   candidates[rng.Intn(len(candidates))],
		})
	}

	return wishes
}

var absenceTypes = []domain.AbsenceType{domain.AbsenceSick, domain.AbsenceVacation, domain.AbsenceOther}

func GenerateRandomAbsences(rng *rand.Rand, n int, staff []domain.Staff, year int) []domain.Absence {
	if len(staff) == 0 {
		return nil
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	absences := make([]domain.Absence, 0, n)
	for i := 0; i < n; i++ {
		from := start.AddDate(0, 0, rng.Intn(360))
		to := from.AddDate(0, 0, rng.Intn(14))
		absences = append(absences, domain.Absence{
			StaffID:   staff[rng.Intn(len(staff))].ID,
			Type:      absenceTypes[rng.Intn(len(absenceTypes))],
			StartDate: from.Format(domain.DateLayout),
			EndDate:   to.Format(domain.DateLayout),
			Status:    "approved",
		})
	}

	return absences
}

func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func FormatStaffLine(s domain.Staff) string {
	return fmt.Sprintf("%s\t%s\t%s\t%s", s.ID, s.Name, s.Role, strings.Join(s.Capabilities, ","))
}
