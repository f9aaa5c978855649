package judge

import (
	"encoding/json"
	"fmt"
)

const wrapperFilename = "solution.js"

// wrapperTemplate 参数依次为：用户代码、输入 JSON 字面量、期望 JSON 字面量、函数名。
// 对象（含数组）输入按插入顺序展开为位置参数，其他值作为单个参数。
const wrapperTemplate = `%s

;(function () {
  const __input = JSON.parse(%s);
  const __expected = JSON.parse(%s);
  const __args = (typeof __input === 'object' && __input !== null) ? Object.values(__input) : [__input];
  try {
    const result = %s(...__args);
    console.log(JSON.stringify({ success: true, result: result, expected: __expected }));
  } catch (error) {
    console.log(JSON.stringify({ success: false, error: (error && error.message) ? error.message : String(error) }));
  }
})();
`

// BuildWrapper 生成执行单个测试用例的程序。
// 输入与期望输出以字符串字面量嵌入再 JSON.parse，保证与 JSON 语义一致。
func BuildWrapper(code, functionName string, input, expected json.RawMessage) (string, error) {
	inputLit, err := jsStringLiteral(input)
	if err != nil {
		return "", err
	}
	expectedLit, err := jsStringLiteral(expected)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(wrapperTemplate, code, inputLit, expectedLit, functionName), nil
}

func jsStringLiteral(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	if !json.Valid(raw) {
		return "", fmt.Errorf("invalid JSON value: %s", string(raw))
	}
	// encoding/json 输出的字符串字面量同时也是合法的 JavaScript 字符串字面量
	b, err := json.Marshal(string(raw))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
